// Package contact holds the record shape shared by the vCard parser, the
// lookup engine and the reporters.
package contact

import (
	"strings"

	"github.com/teranos/vcq/errors"
)

// Record is one parsed contact entry.
//
// Records are values: the parser builds a fresh Record per vCard and nothing
// downstream modifies one after it has been handed out.
type Record struct {
	Name      string   `json:"name" yaml:"name"`
	Emails    []string `json:"emails,omitempty" yaml:"emails,omitempty"`         // Emails[0] is the primary address
	MiscType  string   `json:"misc_type,omitempty" yaml:"misc_type,omitempty"`   // set if and only if MiscValue is set
	MiscValue string   `json:"misc_value,omitempty" yaml:"misc_value,omitempty"` // e.g. a phone number
}

// PrimaryEmail returns the first email address, or "" when the record has none
func (r Record) PrimaryEmail() string {
	if len(r.Emails) == 0 {
		return ""
	}
	return r.Emails[0]
}

// HasMisc reports whether the record carries misc data
func (r Record) HasMisc() bool {
	return r.MiscType != "" && r.MiscValue != ""
}

// SortKey selects the field results are ordered by
type SortKey int

const (
	SortByName SortKey = iota
	SortByEmail
	SortByMisc
)

var sortKeyNames = map[SortKey]string{
	SortByName:  "name",
	SortByEmail: "email",
	SortByMisc:  "misc",
}

// String returns the textual form used by flags and configuration
func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseSortKey parses "name", "email" or "misc" (any case)
func ParseSortKey(s string) (SortKey, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for key, name := range sortKeyNames {
		if name == want {
			return key, nil
		}
	}
	return SortByName, errors.NewInvalidRequestError("unknown sort key %q (supported: name, email, misc)", s)
}
