package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/pkg/search"
)

func TestCuratedTerms(t *testing.T) {
	t.Parallel()

	all := search.CuratedTerms(0)
	require.Len(t, all, 8)
	assert.Equal(t, "设计", all[0].Term)
	assert.Equal(t, int64(25), all[0].Count)
	assert.Equal(t, "人工智能", all[7].Term)

	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Count, all[i].Count, "curated terms must be ordered by count")
	}

	top := search.CuratedTerms(3)
	require.Len(t, top, 3)
	assert.Equal(t, "React", top[2].Term)

	// callers may not mutate the shared list
	top[0].Term = "changed"
	assert.Equal(t, "设计", search.CuratedTerms(1)[0].Term)
}

func TestParseCurated_Invalid(t *testing.T) {
	t.Parallel()

	_, err := search.ParseCurated([]byte("terms: [oops"))
	assert.Error(t, err)
}
