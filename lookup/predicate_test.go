package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/vcq/contact"
)

func TestPredicate_Match(t *testing.T) {
	rec := contact.Record{
		Name:      "Jürgen Straße",
		Emails:    []string{"j.strasse@example.de", "JUERGEN@home.example"},
		MiscType:  "Work",
		MiscValue: "+49 30 1234",
	}

	tests := []struct {
		name          string
		query         string
		miscType      string
		caseSensitive bool
		want          bool
	}{
		{name: "empty query", want: true},
		{name: "name substring", query: "jürgen", want: true},
		{name: "upper-case query", query: "JÜRGEN", want: true},
		{name: "sharp s folds to ss", query: "STRASSE", want: true},
		{name: "secondary email", query: "home.example", want: true},
		{name: "no hit", query: "müller", want: false},
		{name: "misc value is not searched", query: "1234", want: false},
		{name: "type filter, any case", query: "jürgen", miscType: "work", want: true},
		{name: "type filter, other type", query: "jürgen", miscType: "home", want: false},
		{name: "type filter, case sensitive miss", miscType: "work", caseSensitive: true, want: false},
		{name: "type filter, case sensitive hit", miscType: "Work", caseSensitive: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPredicate(tt.query, tt.miscType, tt.caseSensitive)
			assert.Equal(t, tt.want, p.Match(rec))
		})
	}
}

func TestPredicate_TypeFilterNeedsMisc(t *testing.T) {
	p := NewPredicate("", "work", false)
	assert.False(t, p.Match(contact.Record{Name: "No Phone"}))
}

func TestPredicate_DoesNotModifyRecord(t *testing.T) {
	rec := contact.Record{Name: "Alice", Emails: []string{"A@X.COM"}}
	before := rec
	NewPredicate("a@x", "", false).Match(rec)
	assert.Equal(t, before, rec)
}
