// Package am ("I am") loads vcq's configuration.
//
// Values are merged from built-in defaults, /etc/vcq/am.toml, ~/.vcq/am.toml,
// the nearest am.toml found walking up from the working directory, and VCQ_*
// environment variables, in increasing order of precedence. Command-line
// flags are applied on top by the commands themselves.
package am

import (
	"os"
	"path/filepath"
	"strings"
)

// Config represents the complete vcq configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Query    QueryConfig    `mapstructure:"query" toml:"query" json:"query" yaml:"query"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// DatabaseConfig locates the vCard file queries run against
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"` // "~" is expanded to the home directory
}

// QueryConfig holds the defaults for query flags
type QueryConfig struct {
	SortBy                string   `mapstructure:"sort_by" toml:"sort_by" json:"sort_by" yaml:"sort_by"`                                 // name, email or misc
	MiscType              string   `mapstructure:"misc_type" toml:"misc_type" json:"misc_type" yaml:"misc_type"`                         // empty = no misc type filter
	Capacity              int      `mapstructure:"capacity" toml:"capacity" json:"capacity" yaml:"capacity"`                             // max records shown
	MiscProperties        []string `mapstructure:"misc_properties" toml:"misc_properties" json:"misc_properties" yaml:"misc_properties"` // vCard properties feeding the misc field
	MiscTypeCaseSensitive bool     `mapstructure:"misc_type_case_sensitive" toml:"misc_type_case_sensitive" json:"misc_type_case_sensitive" yaml:"misc_type_case_sensitive"`
	Format                string   `mapstructure:"format" toml:"format" json:"format" yaml:"format"` // mutt, block, table, json, yaml
}

// LogConfig configures diagnostic output on stderr
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // everforest or gruvbox
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// DatabasePath returns the configured database path with "~" expanded
func (c *Config) DatabasePath() string {
	return ExpandPath(c.Database.Path)
}

// ExpandPath replaces a leading "~" with the user's home directory.
// Paths without one, or when the home directory is unknown, are returned unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
