package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/vcq/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/vcq/am.toml
	SourceUser        ConfigSource = "user"        // ~/.vcq/am.toml
	SourceProject     ConfigSource = "project"     // project am.toml
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // VCQ_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source (default, system, user, etc.)
	Path   string       // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"` // File path or env var name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Files    []string      `json:"files" yaml:"files"`       // Config files merged, lowest precedence first
	Settings []SettingInfo `json:"settings" yaml:"settings"` // All settings with sources
}

// GetConfigIntrospection returns every effective setting with the source it
// was taken from, as tracked during loading
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	v, err := GetViper()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	introspection := &ConfigIntrospection{
		Files:    mergedFiles(),
		Settings: make([]SettingInfo, 0),
	}

	flattenSettingsWithSources(v.AllSettings(), "", introspection, ConfigSources)
	return introspection, nil
}

// mergedFiles returns the distinct files recorded in ConfigSources
func mergedFiles() []string {
	seen := make(map[string]bool)
	files := make([]string, 0)
	for _, f := range configFiles() {
		if seen[f.path] {
			continue
		}
		for _, si := range ConfigSources {
			if si.Path == f.path {
				seen[f.path] = true
				files = append(files, f.path)
				break
			}
		}
	}
	return files
}

// flattenSettingsWithSources flattens settings and assigns sources from sourceMap
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, introspection *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	// Sort keys for deterministic iteration
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nestedMap, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nestedMap, fullKey, introspection, sourceMap)
			continue
		}

		sourceInfo := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			sourceInfo = si
		}

		// Environment variables override every file
		if envKey, ok := envOverride(fullKey); ok {
			sourceInfo = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     sourceInfo.Source,
			SourcePath: sourceInfo.Path,
		})
	}
}

// envOverride returns the environment variable that sets key, if any
func envOverride(key string) (string, bool) {
	candidates := []string{"VCQ_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if key == "database.path" {
		candidates = []string{"VCQ_DATABASE_PATH", "VCQ_FILE"}
	}
	for _, name := range candidates {
		if os.Getenv(name) != "" {
			return name, true
		}
	}
	return "", false
}
