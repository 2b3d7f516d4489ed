package commands

import (
	"fmt"
	"io"

	"github.com/teranos/vcq/errors"
)

// ErrNoMatches is returned by query commands when nothing matched. The
// summary line has already told the user, so nothing more is printed.
var ErrNoMatches = errors.New("no matches found")

// HandleError prints err (with any hints attached to it) to w and returns
// the process exit status
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrNoMatches) {
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
	return 1
}
