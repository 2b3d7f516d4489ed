package report

import (
	"strings"

	"github.com/teranos/vcq/errors"
)

// Format selects how results are rendered
type Format string

const (
	FormatMutt  Format = "mutt"  // mutt query_command protocol
	FormatBlock Format = "block" // one indented block per record
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported format, default first
func Formats() []Format {
	return []Format{FormatMutt, FormatBlock, FormatTable, FormatJSON, FormatYAML}
}

// ParseFormat parses a format name (any case)
func ParseFormat(s string) (Format, error) {
	want := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range Formats() {
		if f == want {
			return f, nil
		}
	}

	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return FormatMutt, errors.NewInvalidRequestError("unknown format %q (supported: %s)", s, strings.Join(names, ", "))
}

// Structured reports whether the format is machine-readable and must not be
// preceded by the summary line
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}
