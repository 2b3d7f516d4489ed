package lookup

import (
	"github.com/teranos/vcq/contact"
)

// DefaultCapacity is how many matching records a query retains when no
// other bound is given
const DefaultCapacity = 100

// Result is the outcome of one query
type Result struct {
	Scanned  int              `json:"scanned" yaml:"scanned"`   // well-formed records read
	Matched  int              `json:"matched" yaml:"matched"`   // records satisfying the predicate
	Skipped  int              `json:"skipped" yaml:"skipped"`   // malformed cards discarded
	Capacity int              `json:"capacity" yaml:"capacity"` // bound on Records
	Records  []contact.Record `json:"records" yaml:"records"`
}

// Truncated reports whether more records matched than were retained
func (r *Result) Truncated() bool {
	return r.Matched > len(r.Records)
}

// Accumulator counts scanned and matching records and keeps matches, in scan
// order, up to its capacity. Matched keeps counting past the capacity.
type Accumulator struct {
	res Result
}

// NewAccumulator returns an accumulator retaining at most capacity records.
// A capacity of zero or less selects DefaultCapacity.
func NewAccumulator(capacity int) *Accumulator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Accumulator{res: Result{
		Capacity: capacity,
		Records:  make([]contact.Record, 0, min(capacity, DefaultCapacity)),
	}}
}

// Observe records one well-formed record and whether it matched
func (a *Accumulator) Observe(rec contact.Record, matched bool) {
	a.res.Scanned++
	if !matched {
		return
	}
	a.res.Matched++
	if len(a.res.Records) < a.res.Capacity {
		a.res.Records = append(a.res.Records, rec)
	}
}

// Result returns the accumulated counts and records. The accumulator must not
// be used afterwards.
func (a *Accumulator) Result() *Result {
	res := a.res
	return &res
}
