package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/teranos/vcq/am"
	"github.com/teranos/vcq/display"
	"github.com/teranos/vcq/errors"
)

func newAmCmd(ropts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: `Manage vcq configuration ("I am")`,
		Long: `am - Manage vcq configuration ("I am")

Display and manage vcq configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (VCQ_* prefix, e.g. VCQ_QUERY_SORT_BY; VCQ_FILE for database.path)
3. Project config (./am.toml, searched up the directory tree)
4. User config (~/.vcq/am.toml)
5. System config (/etc/vcq/am.toml)
6. Default values

--config FILE replaces 3, 4 and 5 with FILE.`,
		Example: `  vcq am show                          # Show current configuration
  vcq am show --format json            # Show configuration in JSON format
  vcq am get database.path             # Get specific config value
  vcq am set query.sort_by email       # Persist a value to ~/.vcq/am.toml
  vcq am validate                      # Validate current configuration
  vcq am where                         # Show where each value comes from`,
	}

	cmd.AddCommand(newAmShowCmd(ropts))
	cmd.AddCommand(newAmGetCmd())
	cmd.AddCommand(newAmSetCmd())
	cmd.AddCommand(newAmValidateCmd(ropts))
	cmd.AddCommand(newAmWhereCmd())
	return cmd
}

func newAmShowCmd(ropts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective vcq configuration from all sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout(), ropts.cfg, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	return cmd
}

func showConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		return display.OutputJSON(w, cfg)

	case "yaml":
		data, err := display.MarshalYAML(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		_, err = fmt.Fprintf(w, "# vcq configuration\n%s", data)
		return err

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		_, err = fmt.Fprintf(w, "# vcq configuration\n%s", data)
		return err

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
}

func newAmGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., database.path, query.capacity)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := am.Get(args[0])
			if err != nil {
				return errors.WithHint(err, "run 'vcq am show' to list the available keys")
			}
			if list, ok := value.([]string); ok {
				value = strings.Join(list, ",")
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newAmSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Persist a configuration value to ~/.vcq/am.toml",
		Long: `Set a configuration value in the user config file ~/.vcq/am.toml.

The value is parsed according to the key's type; list values are comma
separated (e.g. 'vcq am set query.misc_properties TEL,NOTE'). The previous
file is kept as am.toml.back1 (up to three backups).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := am.SetValue(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
}

func newAmValidateCmd(ropts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Long:  "Validate that the current vcq configuration is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ropts.cfg.Validate(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}

func newAmWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade and which source set each value.

Lists the sources in order of precedence and, for each one, the settings
it contributes to the effective configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			intro, err := am.GetConfigIntrospection()
			if err != nil {
				return err
			}
			return printWhere(cmd.OutOrStdout(), intro)
		},
	}
}

func printWhere(w io.Writer, intro *am.ConfigIntrospection) error {
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(w, "  2. [SYSTEM]   %s\n", am.SystemConfigPath)
	fmt.Fprintln(w, "  3. [USER]     ~/.vcq/am.toml")
	fmt.Fprintln(w, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintln(w, "  5. [EXPLICIT] --config FILE (replaces 2-4)")
	fmt.Fprintln(w, "  6. [ENV]      VCQ_* environment variables")
	fmt.Fprintln(w)

	type fileGroup struct {
		source   am.ConfigSource
		path     string
		settings []am.SettingInfo
	}

	// Group settings by the file or variable that set them
	groups := make(map[string]*fileGroup)
	for _, setting := range intro.Settings {
		key := string(setting.Source) + "|" + setting.SourcePath
		if setting.Source == am.SourceEnvironment || setting.Source == am.SourceDefault {
			key = string(setting.Source)
		}
		group, ok := groups[key]
		if !ok {
			group = &fileGroup{source: setting.Source, path: setting.SourcePath}
			groups[key] = group
		}
		group.settings = append(group.settings, setting)
	}

	sourceOrder := []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceExplicit,
		am.SourceEnvironment,
	}

	fmt.Fprintln(w, "Active configuration:")
	for _, source := range sourceOrder {
		var ordered []*fileGroup
		for _, group := range groups {
			if group.source == source {
				ordered = append(ordered, group)
			}
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].path < ordered[j].path })

		for _, group := range ordered {
			switch source {
			case am.SourceDefault:
				fmt.Fprintf(w, "\n%s: %d settings\n", source, len(group.settings))
			case am.SourceEnvironment:
				fmt.Fprintf(w, "\n%s: %d settings from environment variables\n", source, len(group.settings))
			default:
				fmt.Fprintf(w, "\n%s: %d settings from %s\n", source, len(group.settings), group.path)
			}

			for _, setting := range group.settings {
				valueStr := fmt.Sprintf("%v", setting.Value)
				// Truncate long values
				if len(valueStr) > 50 {
					valueStr = valueStr[:47] + "..."
				}
				if source == am.SourceEnvironment {
					fmt.Fprintf(w, "  %s = %s (%s)\n", setting.Key, valueStr, setting.SourcePath)
				} else {
					fmt.Fprintf(w, "  %s = %s\n", setting.Key, valueStr)
				}
			}
		}
	}
	return nil
}
