package am

import (
	"strings"

	"github.com/teranos/vcq/contact"
	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/report"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.WithHint(
			errors.NewInvalidRequestError("database.path cannot be empty"),
			"set database.path in ~/.vcq/am.toml or pass -f")
	}

	if _, err := contact.ParseSortKey(c.Query.SortBy); err != nil {
		return errors.Wrap(err, "query.sort_by")
	}

	// Capacity: 0 would hide every match, negative is meaningless
	if c.Query.Capacity <= 0 {
		return errors.NewInvalidRequestError("query.capacity must be > 0, got %d", c.Query.Capacity)
	}

	if len(c.Query.MiscProperties) == 0 {
		return errors.NewInvalidRequestError("query.misc_properties cannot be empty (default: [\"TEL\"])")
	}
	for _, p := range c.Query.MiscProperties {
		if strings.TrimSpace(p) == "" {
			return errors.NewInvalidRequestError("query.misc_properties contains an empty property name")
		}
	}

	if _, err := report.ParseFormat(c.Query.Format); err != nil {
		return errors.Wrap(err, "query.format")
	}

	// Empty theme falls back to the default
	if c.Log.Theme != "" && c.Log.Theme != "everforest" && c.Log.Theme != "gruvbox" {
		return errors.NewInvalidRequestError("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	return nil
}
