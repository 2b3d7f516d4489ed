package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/vcq/am"
	"github.com/teranos/vcq/contact"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/logger"
	"github.com/teranos/vcq/lookup"
	"github.com/teranos/vcq/report"
)

// queryOptions holds the flags of a query; unset flags fall back to configuration
type queryOptions struct {
	byEmail           bool
	byMisc            bool
	sortBy            string
	miscType          string
	file              string
	limit             int
	format            string
	caseSensitiveType bool
}

func addQueryFlags(cmd *cobra.Command, o *queryOptions) {
	fs := cmd.Flags()
	fs.BoolVarP(&o.byEmail, "by-email", "e", false, "Sort results by email")
	fs.BoolVarP(&o.byMisc, "by-misc", "m", false, "Sort results by misc field")
	fs.StringVar(&o.sortBy, "sort", "", "Sort key: name, email, misc (default from query.sort_by)")
	fs.StringVarP(&o.miscType, "type", "t", "", "Only show entries whose misc field has this type (e.g. work)")
	fs.StringVarP(&o.file, "file", "f", "", "vCard file to search (default from database.path)")
	fs.IntVarP(&o.limit, "limit", "l", 0, "Maximum number of entries shown (default from query.capacity)")
	fs.StringVar(&o.format, "format", "", "Output format: mutt, block, table, json, yaml (default from query.format)")
	fs.BoolVar(&o.caseSensitiveType, "case-sensitive-type", false, "Compare --type exactly instead of ignoring case")

	cmd.MarkFlagsMutuallyExclusive("by-email", "by-misc", "sort")
}

func newQueryCmd(ropts *rootOptions) *cobra.Command {
	qopts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Search contacts (same as 'vcq QUERY')",
		Long: `Search contacts whose name or email contains QUERY.

Identical to running 'vcq QUERY'; use it when the query text is also the
name of a vcq subcommand (for example 'vcq query version').`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], qopts, ropts)
		},
	}
	addQueryFlags(cmd, qopts)
	return cmd
}

// effectiveConfig applies the flags that were set on top of cfg
func (o *queryOptions) effectiveConfig(flags *pflag.FlagSet, cfg am.Config) am.Config {
	q := &cfg.Query
	switch {
	case o.byEmail:
		q.SortBy = contact.SortByEmail.String()
	case o.byMisc:
		q.SortBy = contact.SortByMisc.String()
	case flags.Changed("sort"):
		q.SortBy = o.sortBy
	}
	if flags.Changed("type") {
		q.MiscType = o.miscType
	}
	if flags.Changed("limit") {
		q.Capacity = o.limit
	}
	if flags.Changed("format") {
		q.Format = o.format
	}
	if flags.Changed("case-sensitive-type") {
		q.MiscTypeCaseSensitive = o.caseSensitiveType
	}
	if flags.Changed("file") {
		cfg.Database.Path = o.file
	}
	return cfg
}

func runQuery(cmd *cobra.Command, query string, o *queryOptions, ropts *rootOptions) error {
	if ropts.cfg == nil {
		return errors.New("configuration not loaded")
	}

	cfg := o.effectiveConfig(cmd.Flags(), *ropts.cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Validate has already accepted both
	sortKey, _ := contact.ParseSortKey(cfg.Query.SortBy)
	format, _ := report.ParseFormat(cfg.Query.Format)

	path := cfg.DatabasePath()
	log := logger.ComponentLogger("query").With(logger.FieldFile, path)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Mark(err, errors.ErrNotFound)
		}
		return errors.WithHint(errors.Wrapf(err, "unable to open data file: %s", path),
			"use -f FILE or run 'vcq am set database.path FILE'")
	}
	defer f.Close()

	start := time.Now()
	res, err := lookup.Run(f, lookup.Options{
		Query:             query,
		MiscType:          cfg.Query.MiscType,
		SortKey:           sortKey,
		Capacity:          cfg.Query.Capacity,
		CaseSensitiveType: cfg.Query.MiscTypeCaseSensitive,
		MiscProperties:    cfg.Query.MiscProperties,
		Verbosity:         ropts.verbosity,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to search %s", path)
	}

	if res.Skipped > 0 && logger.ShouldOutput(ropts.verbosity, logger.OutputSkipped) {
		log.Infow("Skipped malformed cards", logger.FieldSkipped, res.Skipped)
	}
	if logger.ShouldOutput(ropts.verbosity, logger.OutputTiming) {
		log.Debugw("Search complete",
			logger.FieldScanned, res.Scanned,
			logger.FieldMatched, res.Matched,
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	if logger.ShouldOutput(ropts.verbosity, logger.OutputMatches) {
		for _, rec := range res.Records {
			log.Debugw("Match", "name", rec.Name, "emails", rec.Emails, "misc_type", rec.MiscType)
		}
	}

	out := cmd.OutOrStdout()
	if !format.Structured() {
		if err := report.Summary(out, res); err != nil {
			return err
		}
		if res.Matched == 0 {
			return ErrNoMatches
		}
	}

	if err := report.Write(out, res, format); err != nil {
		return errors.Wrap(err, "failed to write results")
	}
	if res.Matched == 0 {
		return ErrNoMatches
	}
	return nil
}
