// Package csp builds Content-Security-Policy header values.
//
//	policy := csp.NewBuilder().
//	    DefaultSrc("'none'").
//	    ImgSrc("'self'", "data:").
//	    Build()
//	// "default-src 'none'; img-src 'self' data:"
package csp

import (
	"slices"
	"strings"
)

// directiveOrder fixes the output order so built policies are stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"media-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// Builder accumulates directives. It is not safe for concurrent use.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

// Directive appends sources to an arbitrary directive. Duplicate sources are dropped.
func (b *Builder) Directive(name string, sources ...string) *Builder {
	for _, s := range sources {
		if s == "" || slices.Contains(b.directives[name], s) {
			continue
		}
		b.directives[name] = append(b.directives[name], s)
	}
	return b
}

// DefaultSrc sets the fallback for every fetch directive.
func (b *Builder) DefaultSrc(sources ...string) *Builder { return b.Directive("default-src", sources...) }

// ScriptSrc sets script-src.
func (b *Builder) ScriptSrc(sources ...string) *Builder { return b.Directive("script-src", sources...) }

// StyleSrc sets style-src.
func (b *Builder) StyleSrc(sources ...string) *Builder { return b.Directive("style-src", sources...) }

// ImgSrc sets img-src.
func (b *Builder) ImgSrc(sources ...string) *Builder { return b.Directive("img-src", sources...) }

// MediaSrc sets media-src.
func (b *Builder) MediaSrc(sources ...string) *Builder { return b.Directive("media-src", sources...) }

// FrameAncestors sets frame-ancestors ('none' forbids framing).
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.Directive("frame-ancestors", sources...)
}

// ReportOnly switches HeaderName to the report-only header.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Build renders the policy. Known directives come first in a fixed order,
// unknown ones follow sorted by name.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	seen := map[string]bool{}
	for _, name := range directiveOrder {
		if sources := b.directives[name]; len(sources) > 0 {
			parts = append(parts, name+" "+strings.Join(sources, " "))
		}
		seen[name] = true
	}
	var extra []string
	for name := range b.directives {
		if !seen[name] && len(b.directives[name]) > 0 {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		parts = append(parts, name+" "+strings.Join(b.directives[name], " "))
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy belongs in.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// APIPolicy is the policy of JSON responses and uploaded media: nothing may
// execute, uploaded images may still be displayed, and nothing may frame us.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'")
}

// SwaggerUIPolicy is the policy of the bundled Swagger UI, which ships inline
// scripts and styles.
func SwaggerUIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:")
}
