package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic API routes. Evaluated in order; literal
// sub-routes such as /api/admin/comments/stats never match \d+ and pass through.
var pathPatterns = []*PathPattern{
	// public
	{Pattern: regexp.MustCompile(`^/api/articles/\d+$`), Template: "/api/articles/:id"},
	{Pattern: regexp.MustCompile(`^/api/articles/\d+/comments$`), Template: "/api/articles/:id/comments"},
	{Pattern: regexp.MustCompile(`^/api/categories/\d+$`), Template: "/api/categories/:id"},
	{Pattern: regexp.MustCompile(`^/api/categories/\d+/articles$`), Template: "/api/categories/:id/articles"},

	// admin
	{Pattern: regexp.MustCompile(`^/api/admin/(articles|categories|comments|subscribers|media)/\d+$`), Template: "/api/admin/$1/:id"},
	{Pattern: regexp.MustCompile(`^/api/admin/(comments|subscribers)/\d+/status$`), Template: "/api/admin/$1/:id/status"},
	{Pattern: regexp.MustCompile(`^/api/admin/settings/[^/]+/[^/]+$`), Template: "/api/admin/settings/:group/:key"},
	{Pattern: regexp.MustCompile(`^/api/admin/settings/(?:[^/]+)$`), Template: "/api/admin/settings/:group"},

	// uploaded files
	{Pattern: regexp.MustCompile(`^/uploads/.+$`), Template: "/uploads/*"},
	{Pattern: regexp.MustCompile(`^/swagger/.+$`), Template: "/swagger/*"},
}

// settings sub-routes that must not collapse into :group.
var settingsLiterals = map[string]bool{
	"/api/admin/settings/groups": true,
	"/api/admin/settings/reset":  true,
	"/api/admin/settings/batch":  true,
}

// NormalizePath maps a request path to its route template so that metric
// labels stay bounded. Query strings and trailing slashes are ignored;
// unknown paths are returned unchanged.
//
//	NormalizePath("/api/articles/123")           // "/api/articles/:id"
//	NormalizePath("/api/admin/comments/7/status") // "/api/admin/comments/:id/status"
//	NormalizePath("/api/admin/settings/site")     // "/api/admin/settings/:group"
//	NormalizePath("/api/search?q=go")             // "/api/search"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if settingsLiterals[path] {
		return path
	}

	for _, p := range pathPatterns {
		if m := p.Pattern.FindStringSubmatchIndex(path); m != nil {
			return string(p.Pattern.ExpandString(nil, p.Template, path, m))
		}
	}

	return path
}
