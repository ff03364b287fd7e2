package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/viper"

	"github.com/corpix/bootstrap/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyUser     = "user"      // default owning user/org
	KeyHost     = "host"      // default hosting domain
	KeyTemplate = "template"  // default template directory or git URL
	KeyHooks    = "hooks"     // finalization hook policy: warn, fail or skip
	KeyCacheDir = "cache_dir" // where remote templates are cloned
)

// Keys lists every supported key in display order.
var Keys = []string{KeyUser, KeyHost, KeyTemplate, KeyHooks, KeyCacheDir}

// Dir returns the path to the config directory (~/.bootstrap/).
// <PREFIX>_HOME overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.bootstrap/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Keys missing from both fall back to the branding defaults.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyUser, branding.DefaultUser())
	viper.SetDefault(KeyHost, branding.DefaultHost())
	viper.SetDefault(KeyTemplate, branding.TemplateRepoURL())
	viper.SetDefault(KeyHooks, "warn")
	viper.SetDefault(KeyCacheDir, filepath.Join(Dir(), "cache"))

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// IsKnown reports whether key is a supported config key.
func IsKnown(key string) bool {
	return slices.Contains(Keys, key)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// List returns the effective value of every supported key.
func List() map[string]string {
	values := make(map[string]string, len(Keys))
	for _, key := range Keys {
		values[key] = Get(key)
	}
	return values
}

// Set writes a config key-value pair and saves the config file. Only the
// keys already in the file and the new one are written; defaults and
// environment overrides are not persisted.
func Set(key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()
	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}
