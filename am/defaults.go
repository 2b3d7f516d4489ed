package am

import (
	"fmt"
	"slices"

	"github.com/spf13/viper"

	"github.com/teranos/vcq/lookup"
	"github.com/teranos/vcq/vcard"
)

// Defaults for configuration values that commands also need directly
const (
	DefaultDatabasePath = "~/.rolo/contacts.vcf"
	DefaultCapacity     = lookup.DefaultCapacity
	DefaultSortBy       = "name"
	DefaultFormat       = "mutt"
	DefaultLogTheme     = "everforest"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("query.sort_by", DefaultSortBy)
	v.SetDefault("query.misc_type", "")
	v.SetDefault("query.capacity", DefaultCapacity)
	v.SetDefault("query.misc_properties", slices.Clone(vcard.DefaultMiscProperties))
	v.SetDefault("query.misc_type_case_sensitive", false)
	v.SetDefault("query.format", DefaultFormat)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// BindEnvAliases binds environment variables that don't follow the VCQ_SECTION_KEY pattern
func BindEnvAliases(v *viper.Viper) {
	// Shorter name for the most common override
	_ = v.BindEnv("database.path", "VCQ_DATABASE_PATH", "VCQ_FILE")
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Query: {SortBy: %s, Capacity: %d, Format: %s}}",
		c.Database.Path, c.Query.SortBy, c.Query.Capacity, c.Query.Format)
}
