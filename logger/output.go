package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Results, the summary line, errors with hints
//	1 (-v)      - + Skipped malformed cards, config sources
//	2 (-vv)     - + Query timing, parser decisions
//	3 (-vvv)    - + Each matching record as it is accepted

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Matching records
	OutputErrors                        // Errors with hints and resolution steps
	OutputSummary                       // "N entries ... M matching." line

	// Level 1 (-v) - Informational
	OutputSkipped // Malformed cards discarded by the parser
	OutputConfig  // Config file and source in effect

	// Level 2 (-vv) - Detailed
	OutputTiming // Scan duration
	OutputParser // Per-card parser decisions

	// Level 3 (-vvv) - Trace
	OutputMatches // Each record accepted by the predicate
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,
	OutputSummary: VerbosityUser,

	OutputSkipped: VerbosityInfo,
	OutputConfig:  VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputParser: VerbosityDebug,

	OutputMatches: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, skipped cards and config sources"
	case VerbosityDebug:
		return "above + timing and parser decisions"
	case VerbosityTrace:
		return "above + every matching record"
	default:
		if verbosity > VerbosityTrace {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
