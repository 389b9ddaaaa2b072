package search

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/entity"
)

const (
	// DefaultPopularLimit is the number of popular terms returned when no limit is given.
	DefaultPopularLimit = 10
	// MaxPopularLimit bounds the popular terms limit.
	MaxPopularLimit = 50
)

//go:embed popular_terms.yaml
var curatedYAML []byte

var (
	curatedOnce  sync.Once
	curatedTerms []entity.PopularTerm
	curatedErr   error
)

type curatedFile struct {
	Terms []entity.PopularTerm `yaml:"terms"`
}

// ParseCurated decodes a curated term list.
func ParseCurated(data []byte) ([]entity.PopularTerm, error) {
	var f curatedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse curated terms: %w", err)
	}
	return f.Terms, nil
}

// CuratedTerms returns the built-in popular terms, used while the computed
// snapshot is still empty. The result is a copy limited to limit entries
// (limit <= 0 means all).
func CuratedTerms(limit int) []entity.PopularTerm {
	curatedOnce.Do(func() {
		curatedTerms, curatedErr = ParseCurated(curatedYAML)
	})
	if curatedErr != nil {
		// embedded file is validated by tests
		return []entity.PopularTerm{}
	}
	n := len(curatedTerms)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.PopularTerm, n)
	copy(out, curatedTerms[:n])
	return out
}
