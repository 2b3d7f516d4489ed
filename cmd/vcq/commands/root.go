package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/teranos/vcq/am"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/logger"
	"github.com/teranos/vcq/version"
)

// annotationConfig marks commands that run without a loadable configuration
const (
	annotationConfig = "vcq/config"
	configOptional   = "optional"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	verbosity  int
	logJSON    bool
	configPath string
	noColor    bool
	license    bool

	cfg *am.Config
}

// NewRootCmd builds the vcq command tree
func NewRootCmd() *cobra.Command {
	ropts := &rootOptions{}
	qopts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "vcq [flags] QUERY",
		Short: "Look up contacts in a vCard file",
		Long: `vcq - vCard query utility for mutt

Searches a vCard (.vcf) contact file for entries whose name or email
address contains QUERY, ignoring case, and prints them in the format
mutt's query_command expects:

  Searching database ... 3 entries ... 2 matching.
  alice@x.com<TAB>Alice Smith<TAB>555-0100

To use it from mutt:

  set query_command = "vcq %s"

Configuration is read from ~/.vcq/am.toml (see 'vcq am').`,
		Example: `  vcq alice                       # search ~/.rolo/contacts.vcf
  vcq -e -f ~/contacts.vcf smith  # sort by email, other file
  vcq -t work ""                  # every contact with a "work" phone
  vcq --format table bob          # human-readable table`,
		Version:       version.Get().Version,
		Args:          ropts.queryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ropts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if ropts.license {
				return printLicense(cmd.OutOrStdout())
			}
			return runQuery(cmd, args[0], qopts, ropts)
		},
	}
	cmd.SetVersionTemplate(version.Get().Line() + "\n")

	pf := cmd.PersistentFlags()
	pf.CountVarP(&ropts.verbosity, "verbose", "v", "Increase log output on stderr (repeat for more detail: -v, -vv, -vvv)")
	pf.BoolVar(&ropts.logJSON, "log-json", false, "Write logs as JSON")
	pf.StringVar(&ropts.configPath, "config", "", "Read configuration from this file only")
	pf.BoolVar(&ropts.noColor, "no-color", false, "Disable colors and styling")

	cmd.Flags().BoolVarP(&ropts.license, "license", "V", false, "Display copyright and license")
	addQueryFlags(cmd, qopts)

	cmd.AddCommand(newQueryCmd(ropts))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLicenseCmd())
	cmd.AddCommand(newAmCmd(ropts))

	return cmd
}

// queryArgs requires exactly one QUERY unless --license was given
func (o *rootOptions) queryArgs(cmd *cobra.Command, args []string) error {
	if o.license {
		return cobra.NoArgs(cmd, args)
	}
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return errors.WithHint(errors.Mark(err, errors.ErrInvalidRequest),
			"usage: vcq [-e|-m] [-t TYPE] [-f FILE] QUERY  (quote an empty query: \"\")")
	}
	return nil
}

// setup loads configuration, then initializes logging and styling from
// flags and configuration
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var err error
	if o.configPath != "" {
		o.cfg, err = am.LoadFromFile(am.ExpandPath(o.configPath))
	} else {
		o.cfg, err = am.Load()
	}

	jsonLogs, theme := o.logJSON, am.DefaultLogTheme
	if o.cfg != nil {
		jsonLogs = jsonLogs || o.cfg.Log.JSON
		if o.cfg.Log.Theme != "" {
			theme = o.cfg.Log.Theme
		}
	}

	logger.SetTheme(theme)
	if o.noColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		logger.SetColor(false)
	}
	if o.noColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableStyling()
	}
	if initErr := logger.Initialize(jsonLogs, o.verbosity); initErr != nil {
		return errors.Wrap(initErr, "failed to initialize logger")
	}

	if err != nil {
		if o.license || cmd.Annotations[annotationConfig] == configOptional {
			logger.Debugw("Ignoring configuration error", logger.FieldError, err)
			return nil
		}
		return errors.Wrap(err, "failed to load configuration")
	}

	if logger.ShouldOutput(o.verbosity, logger.OutputConfig) {
		logger.Infow("Showing "+logger.VerbosityDescription(o.verbosity),
			logger.FieldVerbosity, logger.LevelName(o.verbosity))
		for _, f := range configFilesUsed() {
			logger.Infow("Loaded config", logger.FieldFile, f)
		}
	}
	return nil
}

func configFilesUsed() []string {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return nil
	}
	return intro.Files
}
