package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/vcq/errors"
)

// SystemConfigPath is the lowest-precedence config file
var SystemConfigPath = "/etc/vcq/am.toml"

var (
	globalConfig   *Config
	viperInstance  *viper.Viper
	explicitConfig string

	// ConfigSources records, per dotted key, the file that last set it during
	// loading. Keys absent here come from defaults or the environment.
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the vcq configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile makes configPath the only config file consulted, replacing the
// system/user/project search, and loads it. Defaults and VCQ_* environment
// variables still apply.
func LoadFromFile(configPath string) (*Config, error) {
	Reset()
	explicitConfig = configPath
	cfg, err := Load()
	if err != nil {
		explicitConfig = ""
		return nil, err
	}
	return cfg, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	explicitConfig = ""
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix("VCQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvAliases(v)

	// Set defaults first
	SetDefaults(v)

	ConfigSources = map[string]SourceInfo{}
	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// UserConfigPath returns ~/.vcq/am.toml, or "" when the home directory is unknown
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vcq", "am.toml")
}

// findProjectConfig searches for am.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		amPath := filepath.Join(dir, "am.toml")
		if _, err := os.Stat(amPath); err == nil {
			return amPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			return ""
		}
		dir = parent
	}
}

type configFile struct {
	path     string
	source   ConfigSource
	required bool
}

// configFiles lists the files to merge, lowest precedence first
func configFiles() []configFile {
	if explicitConfig != "" {
		return []configFile{{path: explicitConfig, source: SourceExplicit, required: true}}
	}

	files := []configFile{{path: SystemConfigPath, source: SourceSystem}}
	user := UserConfigPath()
	if user != "" {
		files = append(files, configFile{path: user, source: SourceUser})
	}

	// The user file found again by the project walk (cwd under $HOME) is not merged twice
	if project := findProjectConfig(); project != "" && project != user {
		files = append(files, configFile{path: project, source: SourceProject})
	}
	return files
}

// mergeConfigFiles merges configuration files in precedence order:
// system < user < project, with env vars above all of them
func mergeConfigFiles(v *viper.Viper) error {
	for _, f := range configFiles() {
		if _, err := os.Stat(f.path); err != nil {
			if f.required {
				return errors.WithHint(
					errors.Wrapf(errors.Mark(err, errors.ErrNotFound), "config file %s", f.path),
					"check the path given to --config")
			}
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(f.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			return errors.WithHintf(
				errors.Wrapf(err, "failed to read config file %s", f.path),
				"fix the TOML syntax in %s", f.path)
		}

		settings := fileViper.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", f.path)
		}
		trackSources(settings, "", SourceInfo{Source: f.source, Path: f.path})
	}
	return nil
}

// trackSources records info as the source of every leaf key in settings
func trackSources(settings map[string]interface{}, prefix string, info SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			trackSources(nested, fullKey, info)
			continue
		}
		ConfigSources[fullKey] = info
	}
}

// Get returns a configuration value using dot notation
func Get(key string) (interface{}, error) {
	v, err := initViper()
	if err != nil {
		return nil, err
	}
	if !IsKnownKey(key) {
		return nil, errors.NewNotFoundError("unknown config key %q", key)
	}
	return v.Get(key), nil
}

// IsKnownKey reports whether key names a configuration setting
func IsKnownKey(key string) bool {
	return knownKeys()[strings.ToLower(key)]
}

func knownKeys() map[string]bool {
	v := viper.New()
	SetDefaults(v)
	keys := make(map[string]bool)
	for _, k := range v.AllKeys() {
		keys[k] = true
	}
	return keys
}
