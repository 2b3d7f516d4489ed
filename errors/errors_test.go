package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	original := New("unexpected EOF")
	wrapped := Wrapf(original, "reading %s", "contacts.vcf")

	assert.Equal(t, "reading contacts.vcf: unexpected EOF", wrapped.Error())
	assert.True(t, Is(wrapped, original))
}

func TestMark(t *testing.T) {
	class := New("stream read failed")
	err := Wrap(Mark(io.ErrUnexpectedEOF, class), "scan aborted")

	assert.True(t, Is(err, class), "mark should survive wrapping")
	assert.True(t, Is(err, io.ErrUnexpectedEOF), "original cause should remain visible")
	assert.Equal(t, "scan aborted: unexpected EOF", err.Error())
	assert.False(t, Is(io.ErrUnexpectedEOF, class))
}

type pathError struct {
	path string
}

func (e *pathError) Error() string {
	return "bad path " + e.path
}

func TestAs(t *testing.T) {
	wrapped := Wrap(&pathError{path: "/nope"}, "open data file")

	var target *pathError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "/nope", target.path)
}

func TestHintsSurviveWrapping(t *testing.T) {
	err := WithHint(New("no such file"), "use -f to choose a data file")
	err = WithDetail(err, "path: ~/.rolo/contacts.vcf")
	err = Wrap(err, "open data file")

	assert.Equal(t, []string{"use -f to choose a data file"}, GetAllHints(err))
	assert.Equal(t, "use -f to choose a data file", FlattenHints(err))
	assert.Contains(t, GetAllDetails(err), "path: ~/.rolo/contacts.vcf")
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantNF      bool
		wantInvalid bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: New("boom")},
		{name: "not found", err: NewNotFoundError("config key %q", "query.sort_by"), wantNF: true},
		{name: "wrapped not found", err: Wrap(NewNotFoundError("x"), "outer"), wantNF: true},
		{name: "invalid", err: NewInvalidRequestError("unknown sort key %q", "phone"), wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNF, IsNotFoundError(tt.err))
			assert.Equal(t, tt.wantInvalid, IsInvalidRequestError(tt.err))
		})
	}
}

func TestNewInvalidRequestErrorMessage(t *testing.T) {
	err := NewInvalidRequestError("unknown sort key %q", "phone")
	assert.Equal(t, `unknown sort key "phone": invalid request`, err.Error())
}

func TestStackTrace(t *testing.T) {
	detailed := fmt.Sprintf("%+v", New("with stack"))
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, Mark(nil, ErrNotFound))
}

func ExampleWithHint() {
	err := New("no such file")
	err = WithHint(err, "use -f to choose a data file")

	fmt.Println(GetAllHints(err)[0])
	// Output: use -f to choose a data file
}
