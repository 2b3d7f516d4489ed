package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/vcq/errors"
	"github.com/teranos/vcq/lookup"
	"github.com/teranos/vcq/vcard"
)

// isolate points HOME, the working directory and the system config at fresh
// temp directories so no real configuration leaks into a test
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, project)

	saved := SystemConfigPath
	SystemConfigPath = filepath.Join(t.TempDir(), "am.toml")
	t.Cleanup(func() { SystemConfigPath = saved })
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	home, _ := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, filepath.Join(home, ".rolo", "contacts.vcf"), cfg.DatabasePath())
	assert.Equal(t, "name", cfg.Query.SortBy)
	assert.Equal(t, 100, cfg.Query.Capacity)
	assert.Equal(t, []string{"TEL"}, cfg.Query.MiscProperties)
	assert.Equal(t, "mutt", cfg.Query.Format)
	assert.False(t, cfg.Query.MiscTypeCaseSensitive)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, ConfigSources)
}

func TestDefaultsFollowQueryEngine(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, lookup.DefaultCapacity, cfg.Query.Capacity)
	assert.Equal(t, vcard.DefaultMiscProperties, cfg.Query.MiscProperties)

	cfg.Query.MiscProperties[0] = "NOTE"
	assert.Equal(t, []string{"TEL"}, vcard.DefaultMiscProperties)
}

func TestLoadIsCached(t *testing.T) {
	isolate(t)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadPrecedence(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, SystemConfigPath, `
[database]
path = "/srv/contacts.vcf"

[query]
sort_by = "misc"
capacity = 10
`)
	writeFile(t, filepath.Join(home, ".vcq", "am.toml"), `
[query]
sort_by = "email"
format = "table"
`)
	writeFile(t, filepath.Join(project, "am.toml"), `
[query]
format = "json"
`)
	t.Setenv("VCQ_QUERY_CAPACITY", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/contacts.vcf", cfg.Database.Path, "system file")
	assert.Equal(t, "email", cfg.Query.SortBy, "user file beats system file")
	assert.Equal(t, "json", cfg.Query.Format, "project file beats user file")
	assert.Equal(t, 5, cfg.Query.Capacity, "environment beats every file")

	assert.Equal(t, SourceSystem, ConfigSources["database.path"].Source)
	assert.Equal(t, SourceUser, ConfigSources["query.sort_by"].Source)
	assert.Equal(t, SourceProject, ConfigSources["query.format"].Source)
	assert.Equal(t, filepath.Join(project, "am.toml"), ConfigSources["query.format"].Path)
}

func TestLoadProjectConfigFromSubdirectory(t *testing.T) {
	_, project := isolate(t)

	writeFile(t, filepath.Join(project, "am.toml"), "[query]\nmisc_type = \"work\"\n")
	sub := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))
	chdir(t, sub)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.Query.MiscType)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)

	t.Setenv("VCQ_FILE", "/tmp/other.vcf")
	t.Setenv("VCQ_QUERY_MISC_PROPERTIES", "TEL,NOTE")
	t.Setenv("VCQ_QUERY_MISC_TYPE_CASE_SENSITIVE", "true")
	t.Setenv("VCQ_LOG_JSON", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.vcf", cfg.Database.Path)
	assert.Equal(t, []string{"TEL", "NOTE"}, cfg.Query.MiscProperties)
	assert.True(t, cfg.Query.MiscTypeCaseSensitive)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadMalformedFile(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".vcq", "am.toml"), "[query\nsort_by = ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadFromFile(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".vcq", "am.toml"), "[query]\nsort_by = \"email\"\n")

	explicit := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, explicit, "[query]\ncapacity = 7\n")

	cfg, err := LoadFromFile(explicit)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Query.Capacity)
	assert.Equal(t, "name", cfg.Query.SortBy, "the user file is not consulted")
	assert.Equal(t, SourceExplicit, ConfigSources["query.capacity"].Source)

	// Load keeps returning the explicit configuration until Reset
	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestLoadFromMissingFile(t *testing.T) {
	isolate(t)

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, errors.FlattenHints(err), "--config")
}

func TestGet(t *testing.T) {
	isolate(t)

	v, err := Get("query.capacity")
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	_, err = Get("server.port")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "x.vcf"), ExpandPath("~/x.vcf"))
	assert.Equal(t, "~other/x.vcf", ExpandPath("~other/x.vcf"))
	assert.Equal(t, "/abs/x.vcf", ExpandPath("/abs/x.vcf"))
	assert.Equal(t, "rel.vcf", ExpandPath("rel.vcf"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it on cleanup
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	if filepath.IsAbs(dir) {
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
