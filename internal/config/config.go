package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/connect-labs/extcat/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by the CLI.
const (
	KeyCatalog       = "catalog"
	KeyExtensionsDir = "extensions_dir"
	KeyGitHubRepo    = "github_repo"
	KeyGitHubToken   = "github_token"
	KeyHistoryDB     = "history_db"
)

// Keys lists the settable configuration keys.
var Keys = []string{KeyCatalog, KeyExtensionsDir, KeyGitHubRepo, KeyHistoryDB}

// Dir returns the path to the config directory (~/.extcat/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.extcat/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyCatalog, "extensions.json")
	viper.SetDefault(KeyExtensionsDir, "extensions")
	viper.SetDefault(KeyGitHubRepo, branding.GitHubRepo())
	viper.SetDefault(KeyHistoryDB, filepath.Join(Dir(), "history.db"))
	_ = viper.BindEnv(KeyGitHubToken, branding.EnvVar(KeyGitHubToken), "GITHUB_TOKEN")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// CatalogPath returns the catalog document location.
func CatalogPath() string { return Get(KeyCatalog) }

// ExtensionsDir returns the directory holding <name>/manifest.json files.
func ExtensionsDir() string { return Get(KeyExtensionsDir) }

// GitHubRepo returns the "owner/repo" that publishes extension releases.
func GitHubRepo() string { return Get(KeyGitHubRepo) }

// GitHubToken returns the API token, if any.
func GitHubToken() string { return Get(KeyGitHubToken) }

// HistoryDB returns the history ledger location.
func HistoryDB() string { return Get(KeyHistoryDB) }

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	// Write through a file-only instance so defaults and environment values
	// (GITHUB_TOKEN in particular) never end up in the file.
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}

func isKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
