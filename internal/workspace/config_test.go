package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, sources, err := LoadConfig(t.TempDir(), "", Config{}, false, map[string]string{"XDG_CONFIG_HOME": t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.WorkspaceDir)
	assert.Empty(t, sources.Global)
	assert.Empty(t, sources.Project)
}

func TestLoadConfigWorkspaceFileWithComments(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{
  // comments are allowed
  "workspace_dir": "corpus",
  "author_name": "Sam",
}`)

	cfg, sources, err := LoadConfig(workDir, "", Config{}, false, map[string]string{"XDG_CONFIG_HOME": t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "corpus", cfg.WorkspaceDir)
	assert.Equal(t, "Sam", cfg.AuthorName)
	assert.Equal(t, filepath.Join(workDir, ConfigFileName), sources.Project)
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Parallel()

	globalDir := t.TempDir()
	writeFile(t, filepath.Join(globalDir, "tracedown", "config.json"),
		`{"workspace_dir": "from-global", "author_name": "Global", "editor": "vi"}`)

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{"workspace_dir": "from-workspace"}`)

	env := map[string]string{"XDG_CONFIG_HOME": globalDir}

	cfg, sources, err := LoadConfig(workDir, "", Config{WorkspaceDir: "from-cli"}, true, env)
	require.NoError(t, err)
	assert.Equal(t, "from-cli", cfg.WorkspaceDir, "CLI override wins")
	assert.Equal(t, "Global", cfg.AuthorName, "untouched global values survive")
	assert.Equal(t, "vi", cfg.Editor)
	assert.NotEmpty(t, sources.Global)
	assert.NotEmpty(t, sources.Project)
}

func TestLoadConfigExplicitFileMustExist(t *testing.T) {
	t.Parallel()

	_, _, err := LoadConfig(t.TempDir(), "missing.json", Config{}, false, map[string]string{"XDG_CONFIG_HOME": t.TempDir()})
	require.ErrorIs(t, err, errConfigFileNotFound)
}

func TestLoadConfigRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, ConfigFileName), `{not json`)

	_, _, err := LoadConfig(workDir, "", Config{}, false, map[string]string{"XDG_CONFIG_HOME": t.TempDir()})
	require.ErrorIs(t, err, errConfigInvalid)
}

func TestLoadConfigRejectsEmptyWorkspaceDir(t *testing.T) {
	t.Parallel()

	_, _, err := LoadConfig(t.TempDir(), "", Config{WorkspaceDir: ""}, true, map[string]string{"XDG_CONFIG_HOME": t.TempDir()})
	require.ErrorIs(t, err, errWorkspaceDirEmpty)
}
