package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/logger"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Delete oldest backup if exists
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		logger.Warnw("Failed to delete old config backup", logger.FieldFile, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// loadOrInitializeUserConfig loads ~/.vcq/am.toml as a raw map, or an empty map if it doesn't exist
func loadOrInitializeUserConfig() (map[string]interface{}, string, error) {
	configPath := UserConfigPath()
	if configPath == "" {
		return nil, "", errors.New("could not determine home directory")
	}

	config := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, "", errors.Wrapf(err, "failed to parse %s", configPath)
		}
	case !os.IsNotExist(err):
		return nil, "", errors.Wrapf(err, "failed to read %s", configPath)
	}

	return config, configPath, nil
}

// saveUserConfig writes the config to the user config file with backup
func saveUserConfig(config map[string]interface{}, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create .vcq directory")
	}

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write user config")
	}

	return nil
}

// SetValue parses raw according to the type of key's default, stores it in
// ~/.vcq/am.toml and returns the file written. The resulting configuration is
// validated before anything is written.
func SetValue(key, raw string) (string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !IsKnownKey(key) {
		return "", errors.WithHint(
			errors.NewNotFoundError("unknown config key %q", key),
			"run 'vcq am show' to list the available keys")
	}

	value, err := parseValue(key, raw)
	if err != nil {
		return "", err
	}

	config, configPath, err := loadOrInitializeUserConfig()
	if err != nil {
		return "", errors.Wrap(err, "failed to load user config")
	}
	setNested(config, strings.Split(key, "."), value)

	// Validate the user file on top of the defaults
	v := viper.New()
	SetDefaults(v)
	if err := v.MergeConfigMap(config); err != nil {
		return "", errors.Wrap(err, "failed to merge config")
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	if err := saveUserConfig(config, configPath); err != nil {
		return "", err
	}

	Reset()
	return configPath, nil
}

// parseValue converts raw to the Go type of key's default value
func parseValue(key, raw string) (interface{}, error) {
	v := viper.New()
	SetDefaults(v)

	switch v.Get(key).(type) {
	case int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects an integer, got %q", key, raw)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects true or false, got %q", key, raw)
		}
		return b, nil
	case []string:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return raw, nil
	}
}

// setNested assigns value at the dotted path, creating tables as needed
func setNested(config map[string]interface{}, path []string, value interface{}) {
	for _, part := range path[:len(path)-1] {
		next, ok := config[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			config[part] = next
		}
		config = next
	}
	config[path[len(path)-1]] = value
}
