package setting

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/entity"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults maps group → key → value.
type Defaults map[string]map[string]string

// ParseDefaults decodes a defaults document.
func ParseDefaults(data []byte) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse setting defaults: %w", err)
	}
	return d, nil
}

// BuiltinDefaults returns the embedded defaults.
func BuiltinDefaults() Defaults {
	d, err := ParseDefaults(defaultsYAML)
	if err != nil {
		// embedded file is validated by tests
		panic(err)
	}
	return d
}

// Groups returns the group names in sorted order.
func (d Defaults) Groups() []string {
	out := make([]string, 0, len(d))
	for g := range d {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Settings flattens the listed groups (all groups when none are given), sorted by group then key.
func (d Defaults) Settings(groups ...string) []entity.Setting {
	if len(groups) == 0 {
		groups = d.Groups()
	}
	var out []entity.Setting
	for _, g := range groups {
		keys := make([]string, 0, len(d[g]))
		for k := range d[g] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, entity.Setting{Group: g, Key: k, Value: d[g][k]})
		}
	}
	return out
}
