package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/vcq/contact"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/lookup"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

var sample = &lookup.Result{
	Scanned:  3,
	Matched:  2,
	Capacity: 100,
	Records: []contact.Record{
		{Name: "Alice Smith", Emails: []string{"alice@x.com", "a.smith@work.example"}, MiscType: "work", MiscValue: "555-0100"},
		{Name: "Bob\tAlice", MiscType: "home", MiscValue: "555\n0111"},
	},
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name string
		res  *lookup.Result
		want string
	}{
		{
			name: "matches",
			res:  sample,
			want: "Searching database ... 3 entries ... 2 matching.\n",
		},
		{
			name: "no matches",
			res:  &lookup.Result{Scanned: 3},
			want: "Searching database ... no matches found.\n",
		},
		{
			name: "truncated",
			res:  &lookup.Result{Scanned: 9, Matched: 5, Capacity: 1, Records: []contact.Record{{Name: "x"}}},
			want: "Searching database ... 9 entries ... 5 matching (showing first 1).\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Summary(&buf, tt.res))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteMutt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample, FormatMutt))

	want := "alice@x.com\tAlice Smith\t555-0100\n" +
		"a.smith@work.example\tAlice Smith\t555-0100\n" +
		"\tBob Alice\t555 0111\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteBlock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample, FormatBlock))

	want := "Alice Smith\n" +
		"  email: alice@x.com\n" +
		"  email: a.smith@work.example\n" +
		"  work: 555-0100\n" +
		"\n" +
		"Bob\tAlice\n" +
		"  home: 555\n0111\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample, FormatTable))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, want := range []string{"Name", "Email", "Type", "Misc"} {
		assert.Contains(t, lines[0], want)
	}
	assert.Contains(t, lines[1], "alice@x.com, a.smith@work.example")
	assert.Contains(t, lines[2], "Bob Alice")

	buf.Reset()
	require.NoError(t, Write(&buf, &lookup.Result{}, FormatTable))
	assert.Empty(t, buf.String())
}

func TestWriteTableSanitizesEmails(t *testing.T) {
	res := &lookup.Result{Scanned: 1, Matched: 1, Capacity: 10, Records: []contact.Record{
		{Name: "Eve", Emails: []string{"eve@x.com\nInjected\trow", "e@y.org"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, FormatTable))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "eve@x.com Injected row, e@y.org")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample, FormatJSON))

	var doc document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 3, doc.Scanned)
	assert.Equal(t, 2, doc.Matched)
	assert.False(t, doc.Truncated)
	assert.Equal(t, sample.Records, doc.Records)
}

func TestWriteJSONEmptyRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &lookup.Result{Scanned: 1, Capacity: 100}, FormatJSON))
	assert.Contains(t, buf.String(), `"records": []`)
}

func TestWriteYAML(t *testing.T) {
	res := &lookup.Result{Scanned: 4, Matched: 3, Capacity: 1, Records: sample.Records[:1]}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res, FormatYAML))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.True(t, doc.Truncated)
	assert.Equal(t, 1, doc.Capacity)
	assert.Equal(t, "work", doc.Records[0].MiscType)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sample, Format("csv"))
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported: mutt, block, table, json, yaml")

	assert.True(t, FormatJSON.Structured())
	assert.False(t, FormatMutt.Structured())
}
