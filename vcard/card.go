package vcard

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/vcq/contact"
)

// maxCardProperties bounds how many content lines one open card may hold.
// A card that never sees END:VCARD would otherwise pull the rest of the file
// into memory.
const maxCardProperties = 4096

// supportedVersions covers vCard 2.1, 3.0 and 4.0
var supportedVersions = mustConstraint(">= 2.1, < 5")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// versionSupported reports whether a VERSION value names a vCard revision this parser understands
func versionSupported(v string) bool {
	ver, err := semver.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return supportedVersions.Check(ver)
}

// card collects the properties between BEGIN:VCARD and END:VCARD
type card struct {
	line     int // line number of BEGIN:VCARD
	props    []property
	overflow bool
}

func (c *card) add(p property) {
	if len(c.props) >= maxCardProperties {
		c.overflow = true
		return
	}
	c.props = append(c.props, p)
}

// miscSelector decides which property supplies a record's misc field
type miscSelector struct {
	properties    map[string]bool
	preferType    string
	caseSensitive bool
}

func (m miscSelector) typeMatches(t string) bool {
	if m.caseSensitive {
		return t == m.preferType
	}
	return strings.EqualFold(t, m.preferType)
}

// build turns a closed card into a record. A non-empty reason means the card
// is malformed and must be skipped.
func (c *card) build(misc miscSelector) (rec contact.Record, reason string) {
	if c.overflow {
		return rec, "too many properties"
	}

	var (
		fn, structured string
		haveN          bool
		prefEmail      bool
		miscFound      bool
		miscPreferred  bool
	)

	for _, p := range c.props {
		switch p.name {
		case "VERSION":
			if !versionSupported(p.value) {
				return contact.Record{}, "unsupported VERSION " + strings.TrimSpace(p.value)
			}
		case "FN":
			if fn == "" {
				fn = strings.TrimSpace(unescape(p.text()))
			}
		case "N":
			if !haveN {
				structured = composeName(p.text())
				haveN = true
			}
		case "EMAIL":
			addr := strings.TrimSpace(unescape(p.text()))
			switch {
			case addr == "":
			case p.pref && !prefEmail:
				rec.Emails = append([]string{addr}, rec.Emails...)
				prefEmail = true
			default:
				rec.Emails = append(rec.Emails, addr)
			}
		}

		if misc.properties[p.name] && !miscPreferred {
			value := strings.TrimSpace(unescape(p.text()))
			if value == "" {
				continue
			}
			if misc.preferType != "" {
				if t, ok := p.matchingType(misc); ok {
					rec.MiscType, rec.MiscValue = t, value
					miscFound, miscPreferred = true, true
					continue
				}
			}
			if !miscFound {
				rec.MiscType, rec.MiscValue = p.label(), value
				miscFound = true
			}
		}
	}

	rec.Name = fn
	if rec.Name == "" {
		rec.Name = structured
	}
	if rec.Name == "" {
		return contact.Record{}, "missing FN and N"
	}
	return rec, ""
}

// matchingType returns the first TYPE label equal to the preferred misc type
func (p property) matchingType(misc miscSelector) (string, bool) {
	for _, t := range p.types {
		if misc.typeMatches(t) {
			return t, true
		}
	}
	return "", false
}

// label is the misc type a property contributes when no preference applies
func (p property) label() string {
	if len(p.types) > 0 {
		return p.types[0]
	}
	return strings.ToLower(p.name)
}

// composeName builds "Prefix Given Additional Family Suffix" from a structured N value
func composeName(value string) string {
	parts := splitEscaped(value, ';')
	order := []int{3, 1, 2, 0, 4}

	var words []string
	for _, idx := range order {
		if idx >= len(parts) {
			continue
		}
		for _, v := range splitEscaped(parts[idx], ',') {
			if w := strings.TrimSpace(unescape(v)); w != "" {
				words = append(words, w)
			}
		}
	}
	return strings.Join(words, " ")
}
