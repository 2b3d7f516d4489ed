package vcard

import (
	"strings"
)

// property is one content line of an open card, kept only until the card
// is closed and turned into a contact.Record.
type property struct {
	name  string   // upper-cased, group prefix removed
	types []string // TYPE labels as written, "pref" removed
	pref  bool
	value string // still escaped and transfer-encoded

	quotedPrintable bool
	charset         string // CHARSET parameter, "" if absent
}

// transferEncodings are vCard 2.1 bare parameters that describe the value
// encoding rather than its type.
var transferEncodings = map[string]bool{
	"QUOTED-PRINTABLE": true,
	"BASE64":           true,
	"B":                true,
	"8BIT":             true,
	"7BIT":             true,
}

// parseContentLine splits "[group.]NAME *(;PARAM) : VALUE".
// Returns false for lines that carry no ':' outside a quoted parameter value.
func parseContentLine(line string) (property, bool) {
	colon := indexUnquoted(line, ':')
	if colon < 0 {
		return property{}, false
	}

	head := splitUnquoted(line[:colon], ';')
	name := strings.TrimSpace(head[0])
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[dot+1:]
	}
	if name == "" {
		return property{}, false
	}

	prop := property{
		name:  strings.ToUpper(name),
		value: line[colon+1:],
	}

	for _, param := range head[1:] {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}

		key, val, found := strings.Cut(param, "=")
		if !found {
			// vCard 2.1 style: TEL;WORK;VOICE:...
			if enc := strings.ToUpper(param); transferEncodings[enc] {
				prop.quotedPrintable = prop.quotedPrintable || enc == "QUOTED-PRINTABLE"
				continue
			}
			prop.addType(param)
			continue
		}

		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "TYPE":
			for _, t := range strings.Split(strings.Trim(strings.TrimSpace(val), `"`), ",") {
				prop.addType(strings.TrimSpace(t))
			}
		case "PREF":
			prop.pref = true
		case "ENCODING":
			if strings.EqualFold(strings.TrimSpace(val), "QUOTED-PRINTABLE") {
				prop.quotedPrintable = true
			}
		case "CHARSET":
			prop.charset = strings.Trim(strings.TrimSpace(val), `"`)
		}
	}

	return prop, true
}

// declaresQuotedPrintable reports whether the parameters of a raw content
// line select the quoted-printable encoding
func declaresQuotedPrintable(line string) bool {
	prop, ok := parseContentLine(line)
	return ok && prop.quotedPrintable
}

func (p *property) addType(t string) {
	switch {
	case t == "":
	case strings.EqualFold(t, "pref"):
		p.pref = true
	default:
		p.types = append(p.types, t)
	}
}

// indexUnquoted returns the index of the first sep outside double quotes, or -1
func indexUnquoted(s string, sep byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	for {
		i := indexUnquoted(s, sep)
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}

// splitEscaped splits a property value on sep, honouring backslash escapes.
// The parts are returned still escaped.
func splitEscaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// unescape decodes \n, \N, \, \; \: and \\ in a property value.
// Unknown escapes are kept verbatim.
func unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch next := s[i]; next {
		case 'n', 'N':
			b.WriteByte('\n')
		case ',', ';', ':', '\\':
			b.WriteByte(next)
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
	}
	return b.String()
}
