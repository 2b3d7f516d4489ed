package lookup

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/teranos/vcq/contact"
)

type sortEntry struct {
	rec     contact.Record
	key     string // folded
	missing bool
}

// Sort orders records in place by key. The order is stable: records whose
// folded keys are equal keep their relative order. When sorting by email or
// misc, records without that field come last.
func Sort(records []contact.Record, key contact.SortKey) {
	if len(records) < 2 {
		return
	}

	folder := cases.Fold()
	entries := make([]sortEntry, len(records))
	for i, rec := range records {
		e := sortEntry{rec: rec}
		switch key {
		case contact.SortByEmail:
			e.key, e.missing = folder.String(rec.PrimaryEmail()), rec.PrimaryEmail() == ""
		case contact.SortByMisc:
			e.key, e.missing = folder.String(rec.MiscValue), !rec.HasMisc()
		default:
			e.key = folder.String(rec.Name)
		}
		entries[i] = e
	}

	slices.SortStableFunc(entries, func(a, b sortEntry) int {
		switch {
		case a.missing && b.missing:
			return 0
		case a.missing:
			return 1
		case b.missing:
			return -1
		}
		return strings.Compare(a.key, b.key)
	})

	for i, e := range entries {
		records[i] = e.rec
	}
}
