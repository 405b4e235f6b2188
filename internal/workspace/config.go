package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	WorkspaceDir string `json:"workspace_dir"` //nolint:tagliatelle // snake_case for config file
	AuthorName   string `json:"author_name,omitempty"`  //nolint:tagliatelle // snake_case for config file
	AuthorEmail  string `json:"author_email,omitempty"` //nolint:tagliatelle // snake_case for config file
	Editor       string `json:"editor,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration: the workspace is the
// working directory itself.
func DefaultConfig() Config {
	return Config{
		WorkspaceDir: ".",
	}
}

// ConfigFileName is the per-workspace config file name.
const ConfigFileName = ".tracedown.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
	errWorkspaceDirEmpty  = errors.New("workspace_dir cannot be empty")
)

// globalConfigPath returns the global config location: $XDG_CONFIG_HOME
// first, then ~/.config. Empty when no home directory can be determined.
func globalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "tracedown", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "tracedown", "config.json")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "tracedown", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Workspace config file (.tracedown.json, if exists)
// 4. Explicit config file via configPath (if non-empty)
// 5. CLI overrides.
func LoadConfig(workDir, configPath string, overrides Config, hasDirOverride bool, env map[string]string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(globalPath, false)
		if err != nil {
			return Config{}, ConfigSources{}, err
		}

		if loaded {
			sources.Global = globalPath
			cfg = mergeConfig(cfg, globalCfg)
		}
	}

	cfgFile := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	if loaded {
		sources.Project = cfgFile
		cfg = mergeConfig(cfg, fileCfg)
	}

	if hasDirOverride {
		cfg.WorkspaceDir = overrides.WorkspaceDir
	}

	if overrides.AuthorName != "" {
		cfg.AuthorName = overrides.AuthorName
	}

	if cfg.WorkspaceDir == "" {
		return Config{}, ConfigSources{}, errWorkspaceDirEmpty
	}

	return cfg, sources, nil
}

// loadConfigFile loads one config file. Missing optional files return
// loaded == false without error.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON so config files may carry comments.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.WorkspaceDir != "" {
		base.WorkspaceDir = overlay.WorkspaceDir
	}

	if overlay.AuthorName != "" {
		base.AuthorName = overlay.AuthorName
	}

	if overlay.AuthorEmail != "" {
		base.AuthorEmail = overlay.AuthorEmail
	}

	if overlay.Editor != "" {
		base.Editor = overlay.Editor
	}

	return base
}

// FormatConfig returns the config as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
