package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Build(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		b    *Builder
		want string
	}{
		{name: "empty", b: NewBuilder(), want: ""},
		{
			name: "fixed order regardless of call order",
			b:    NewBuilder().FrameAncestors("'none'").ImgSrc("'self'").DefaultSrc("'none'"),
			want: "default-src 'none'; img-src 'self'; frame-ancestors 'none'",
		},
		{
			name: "duplicates and empty sources dropped",
			b:    NewBuilder().ScriptSrc("'self'", "", "'self'").ScriptSrc("'unsafe-inline'"),
			want: "script-src 'self' 'unsafe-inline'",
		},
		{
			name: "unknown directives follow sorted",
			b:    NewBuilder().DefaultSrc("'self'").Directive("worker-src", "'none'").Directive("manifest-src", "'self'"),
			want: "default-src 'self'; manifest-src 'self'; worker-src 'none'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.b.Build())
		})
	}
}

func TestPresets(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "default-src 'none'; img-src 'self' data:; frame-ancestors 'none'", APIPolicy().Build())
	assert.Equal(t,
		"default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
		SwaggerUIPolicy().Build())
}

func TestHeaderName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Content-Security-Policy", NewBuilder().HeaderName())
	assert.Equal(t, "Content-Security-Policy-Report-Only", NewBuilder().ReportOnly(true).HeaderName())
}
