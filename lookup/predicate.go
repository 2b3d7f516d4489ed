package lookup

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/teranos/vcq/contact"
)

// Predicate decides whether a record is a hit for one query.
//
// The query is matched as a substring of the name or of any email address,
// after Unicode case folding. A non-empty misc type further requires the
// record's MiscType to equal it. A Predicate holds a case folder and must not
// be shared between goroutines.
type Predicate struct {
	query             string // folded
	miscType          string
	caseSensitiveType bool
	folder            cases.Caser
}

// NewPredicate builds a predicate for query. miscType may be empty to accept
// records regardless of their misc data.
func NewPredicate(query, miscType string, caseSensitiveType bool) *Predicate {
	p := &Predicate{
		miscType:          miscType,
		caseSensitiveType: caseSensitiveType,
		folder:            cases.Fold(),
	}
	p.query = p.fold(query)
	return p
}

// Match reports whether rec satisfies the predicate. It has no side effects on rec.
func (p *Predicate) Match(rec contact.Record) bool {
	if !p.matchesText(rec) {
		return false
	}
	return p.matchesType(rec)
}

func (p *Predicate) matchesText(rec contact.Record) bool {
	if p.query == "" {
		return true
	}
	if strings.Contains(p.fold(rec.Name), p.query) {
		return true
	}
	for _, email := range rec.Emails {
		if strings.Contains(p.fold(email), p.query) {
			return true
		}
	}
	return false
}

func (p *Predicate) matchesType(rec contact.Record) bool {
	if p.miscType == "" {
		return true
	}
	if !rec.HasMisc() {
		return false
	}
	if p.caseSensitiveType {
		return rec.MiscType == p.miscType
	}
	return p.fold(rec.MiscType) == p.fold(p.miscType)
}

func (p *Predicate) fold(s string) string {
	return p.folder.String(s)
}
