// Package vcard reads contact records out of a vCard stream.
//
// A Scanner makes one pass over its reader and never holds more than the
// card currently being read. Cards that cannot produce a display name, carry
// an unsupported VERSION, or are cut short by another BEGIN:VCARD or by end
// of input are skipped and counted, never reported as errors. Only failures
// of the underlying reader stop a scan; those are marked with ErrRead.
package vcard

import (
	"bufio"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/vcq/contact"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/logger"
)

// ErrRead marks errors caused by the underlying stream rather than its content
var ErrRead = errors.New("vcard: stream read failed")

// DefaultMiscProperties lists the properties that feed a record's misc field
var DefaultMiscProperties = []string{"TEL"}

// Option configures a Scanner
type Option func(*Scanner)

// WithMiscProperties sets which property names (e.g. TEL, NOTE) may supply the misc field
func WithMiscProperties(names ...string) Option {
	return func(s *Scanner) {
		s.misc.properties = make(map[string]bool, len(names))
		for _, n := range names {
			if n = strings.ToUpper(strings.TrimSpace(n)); n != "" {
				s.misc.properties[n] = true
			}
		}
	}
}

// WithPreferredMiscType makes a misc property carrying this TYPE win over
// earlier misc properties of the same card
func WithPreferredMiscType(miscType string, caseSensitive bool) Option {
	return func(s *Scanner) {
		s.misc.preferType = miscType
		s.misc.caseSensitive = caseSensitive
	}
}

// WithLogger replaces the component logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// Scanner yields one contact.Record per well-formed card.
// Its shape follows bufio.Scanner: call Scan until it returns false, then Err.
type Scanner struct {
	r      *bufio.Reader
	logger *zap.SugaredLogger
	misc   miscSelector

	lineNo     int    // physical lines consumed
	buf        []byte // logical line being joined, reused across lines
	pending    string
	pendingNo  int
	hasPending bool

	rec     contact.Record
	skipped int
	err     error
	done    bool
}

// NewScanner returns a Scanner reading from r
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		r:      bufio.NewReader(r),
		logger: logger.ComponentLogger("vcard"),
	}
	WithMiscProperties(DefaultMiscProperties...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan advances to the next well-formed card. It returns false at end of
// input or on a read error.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	var open *card
	for {
		line, start, err := s.nextLine()
		if err == io.EOF {
			if open != nil {
				s.skip(open, "unterminated card")
			}
			s.done = true
			return false
		}
		if err != nil {
			s.err = err
			s.done = true
			return false
		}

		prop, ok := parseContentLine(line)
		if !ok {
			continue
		}

		switch {
		case prop.name == "BEGIN" && isVCard(prop.value):
			if open != nil {
				s.skip(open, "BEGIN:VCARD inside an open card")
			}
			open = &card{line: start}

		case prop.name == "END" && isVCard(prop.value):
			if open == nil {
				continue
			}
			rec, reason := open.build(s.misc)
			if reason != "" {
				s.skip(open, reason)
				open = nil
				continue
			}
			s.rec = rec
			return true

		case open != nil:
			open.add(prop)
		}
	}
}

// Record returns the record produced by the most recent successful Scan
func (s *Scanner) Record() contact.Record {
	return s.rec
}

// Skipped returns how many malformed cards have been discarded so far
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Err returns the first read error, or nil if the scan reached end of input
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) skip(c *card, reason string) {
	s.skipped++
	s.logger.Debugw("Skipping malformed card", logger.FieldLine, c.line, logger.FieldReason, reason)
}

func isVCard(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "VCARD")
}

// nextLine returns the next logical line with folded continuation lines
// joined, and the physical line number it started on. Quoted-printable values
// are also continued across soft line breaks (a trailing '=').
func (s *Scanner) nextLine() (string, int, error) {
	var line string
	var start int
	if s.hasPending {
		line, start = s.pending, s.pendingNo
		s.hasPending = false
	} else {
		l, err := s.readPhysical()
		if err != nil {
			return "", 0, err
		}
		line, start = l, s.lineNo
	}

	// s.buf only holds the line once a continuation has been seen
	joined := false
	qp, qpKnown := false, false
	for {
		next, err := s.readPhysical()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", 0, err
		}

		if next != "" && (next[0] == ' ' || next[0] == '\t') {
			if !joined {
				s.buf, joined = append(s.buf[:0], line...), true
			}
			s.buf = append(s.buf, next[1:]...)
			continue
		}

		if s.endsWithSoftBreak(line, joined) {
			if !qpKnown {
				qp, qpKnown = declaresQuotedPrintable(s.current(line, joined)), true
			}
			if qp {
				if !joined {
					s.buf, joined = append(s.buf[:0], line...), true
				}
				s.buf = append(s.buf[:len(s.buf)-1], next...)
				continue
			}
		}

		s.pending, s.pendingNo, s.hasPending = next, s.lineNo, true
		break
	}

	if !joined {
		return line, start, nil
	}
	return string(s.buf), start, nil
}

func (s *Scanner) endsWithSoftBreak(line string, joined bool) bool {
	if joined {
		return len(s.buf) > 0 && s.buf[len(s.buf)-1] == '='
	}
	return strings.HasSuffix(line, "=")
}

func (s *Scanner) current(line string, joined bool) string {
	if joined {
		return string(s.buf)
	}
	return line
}

// readPhysical reads one line of any length without its line terminator
func (s *Scanner) readPhysical() (string, error) {
	line, err := s.r.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
	} else if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "failed to read line %d", s.lineNo+1), ErrRead)
	}

	if s.lineNo == 0 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	s.lineNo++
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
