// Package report renders query results.
//
// The mutt format follows mutt's query_command protocol: a free-form first
// line (the summary written by Summary) and then one
// "address<TAB>name<TAB>other" line per address.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/vcq/contact"
	"github.com/teranos/vcq/display"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/lookup"
)

// document is the shape of json and yaml output
type document struct {
	Scanned   int              `json:"scanned" yaml:"scanned"`
	Matched   int              `json:"matched" yaml:"matched"`
	Skipped   int              `json:"skipped" yaml:"skipped"`
	Capacity  int              `json:"capacity" yaml:"capacity"`
	Truncated bool             `json:"truncated" yaml:"truncated"`
	Records   []contact.Record `json:"records" yaml:"records"`
}

// Summary writes the one-line progress and count report that precedes the
// records in the mutt, block and table formats
func Summary(w io.Writer, res *lookup.Result) error {
	var line string
	switch {
	case res.Matched == 0:
		line = "Searching database ... no matches found.\n"
	case res.Truncated():
		line = fmt.Sprintf("Searching database ... %d entries ... %d matching (showing first %d).\n",
			res.Scanned, res.Matched, len(res.Records))
	default:
		line = fmt.Sprintf("Searching database ... %d entries ... %d matching.\n", res.Scanned, res.Matched)
	}
	_, err := io.WriteString(w, line)
	return err
}

// Write renders the retained records of res in their final order
func Write(w io.Writer, res *lookup.Result, format Format) error {
	switch format {
	case FormatMutt, "":
		return writeMutt(w, res.Records)
	case FormatBlock:
		return writeBlock(w, res.Records)
	case FormatTable:
		return writeTable(w, res.Records)
	case FormatJSON:
		return display.OutputJSON(w, newDocument(res))
	case FormatYAML:
		return display.OutputYAML(w, newDocument(res))
	default:
		return errors.NewInvalidRequestError("unknown format %q", format)
	}
}

func newDocument(res *lookup.Result) document {
	records := res.Records
	if records == nil {
		records = []contact.Record{}
	}
	return document{
		Scanned:   res.Scanned,
		Matched:   res.Matched,
		Skipped:   res.Skipped,
		Capacity:  res.Capacity,
		Truncated: res.Truncated(),
		Records:   records,
	}
}

// field strips the characters that would break a tab-separated line
var field = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ").Replace

func writeMutt(w io.Writer, records []contact.Record) error {
	for _, rec := range records {
		emails := rec.Emails
		if len(emails) == 0 {
			emails = []string{""}
		}
		for _, email := range emails {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", field(email), field(rec.Name), field(rec.MiscValue)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeBlock(w io.Writer, records []contact.Record) error {
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pterm.Bold.Sprint(rec.Name))
		b.WriteString("\n")
		for _, email := range rec.Emails {
			fmt.Fprintf(&b, "  %s %s\n", pterm.LightCyan("email:"), email)
		}
		if rec.HasMisc() {
			fmt.Fprintf(&b, "  %s %s\n", pterm.Yellow(rec.MiscType+":"), rec.MiscValue)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(w io.Writer, records []contact.Record) error {
	if len(records) == 0 {
		return nil
	}

	data := pterm.TableData{{"Name", "Email", "Type", "Misc"}}
	for _, rec := range records {
		data = append(data, []string{
			field(rec.Name),
			field(strings.Join(rec.Emails, ", ")),
			rec.MiscType,
			field(rec.MiscValue),
		})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
