package respond

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"url dsn": {
			errors.New("dial tcp: postgres://blog:secretpassword@db:5432/blog"),
			"dial tcp: postgres://blog:****@db:5432/blog",
		},
		"key value dsn": {
			errors.New("connect: host=db user=blog password=s3cret dbname=blog"),
			"connect: host=db user=blog password=**** dbname=blog",
		},
		"bearer token": {
			errors.New("upstream rejected Bearer abc.def-ghi"),
			"upstream rejected Bearer ****",
		},
		"bare jwt": {
			errors.New("token eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhIn0.sig_value expired"),
			"token **** expired",
		},
		"subscriber email in constraint detail": {
			fmt.Errorf("insert subscriber: %w", errors.New(`Key (email)=(reader@example.com) already exists`)),
			"insert subscriber: Key (email)=(****@****) already exists",
		},
		"nothing sensitive": {errors.New("article not found"), "article not found"},
		"nil":               {nil, ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeError(tt.err))
		})
	}
}
