package entity

import (
	"regexp"
	"time"
)

var settingNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,49}$`)

// Setting is one key/value pair inside a settings group (e.g. site.title).
type Setting struct {
	Group     string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SettingGroup reports how many keys a group holds.
type SettingGroup struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Validate checks that group and key are usable identifiers.
func (s *Setting) Validate() error {
	if !settingNamePattern.MatchString(s.Group) {
		return &ValidationError{Field: "group", Message: "must be lowercase letters, digits or underscores"}
	}
	if !settingNamePattern.MatchString(s.Key) {
		return &ValidationError{Field: "key", Message: "must be lowercase letters, digits or underscores"}
	}
	return nil
}
