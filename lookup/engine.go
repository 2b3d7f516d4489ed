// Package lookup runs a query over a vCard stream: every well-formed card is
// tested against a Predicate, matches are collected by an Accumulator under a
// capacity bound, and the retained records are sorted for display.
package lookup

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/vcq/contact"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/logger"
	"github.com/teranos/vcq/vcard"
)

// Options configures one query. It is passed by value; Run keeps no state
// between calls.
type Options struct {
	Query    string
	MiscType string // only records with this misc type match; "" accepts all
	SortKey  contact.SortKey
	Capacity int // <= 0 selects DefaultCapacity

	// CaseSensitiveType compares MiscType exactly instead of case-insensitively
	CaseSensitiveType bool

	// MiscProperties names the vCard properties that may supply the misc
	// field; empty selects vcard.DefaultMiscProperties
	MiscProperties []string

	Logger *zap.SugaredLogger // optional (default: the "lookup" component logger)

	// Verbosity is the -v count; per-card parser decisions are logged only
	// when it enables logger.OutputParser
	Verbosity int
}

// Run reads every card from r, applies the query and returns the sorted
// result. The whole stream is consumed even once the capacity is reached.
//
// A failure of r aborts the query: Run then returns a nil Result and an error
// for which errors.Is(err, vcard.ErrRead) holds.
func Run(r io.Reader, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("lookup")
	}
	log = logger.ChildLogger(log, logger.FieldQuery, opts.Query)

	parserLog := zap.NewNop().Sugar()
	if logger.ShouldOutput(opts.Verbosity, logger.OutputParser) {
		parserLog = log.Named("vcard")
	}

	scanOpts := []vcard.Option{
		vcard.WithPreferredMiscType(opts.MiscType, opts.CaseSensitiveType),
		vcard.WithLogger(parserLog),
	}
	if len(opts.MiscProperties) > 0 {
		scanOpts = append(scanOpts, vcard.WithMiscProperties(opts.MiscProperties...))
	}

	start := time.Now()
	scanner := vcard.NewScanner(r, scanOpts...)
	pred := NewPredicate(opts.Query, opts.MiscType, opts.CaseSensitiveType)
	acc := NewAccumulator(opts.Capacity)

	for scanner.Scan() {
		rec := scanner.Record()
		acc.Observe(rec, pred.Match(rec))
	}
	if err := scanner.Err(); err != nil {
		log.Debugw("Scan aborted", logger.FieldError, err)
		return nil, errors.Wrap(err, "query aborted")
	}

	res := acc.Result()
	res.Skipped = scanner.Skipped()
	Sort(res.Records, opts.SortKey)

	log.Debugw("Query finished",
		logger.FieldScanned, res.Scanned,
		logger.FieldMatched, res.Matched,
		logger.FieldSkipped, res.Skipped,
		logger.FieldCapacity, res.Capacity,
		logger.FieldMiscType, opts.MiscType,
		logger.FieldSortKey, opts.SortKey.String(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	return res, nil
}
