// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into
// the binary with //go:embed, so a fork only has to edit the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	GoModule        string `yaml:"go_module"`
	DefaultUser     string `yaml:"default_user"`
	DefaultHost     string `yaml:"default_host"`
	TemplateRepoURL string `yaml:"template_repo_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:         "bootstrap",
			DisplayName:     "Bootstrap",
			Description:     "Scaffold a new Go project from a template tree",
			HomeDir:         ".bootstrap",
			EnvPrefix:       "BOOTSTRAP",
			GoModule:        "github.com/corpix/bootstrap",
			DefaultUser:     "corpix",
			DefaultHost:     "github.com",
			TemplateRepoURL: "https://github.com/corpix/go-boilerplate.git",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "bootstrap").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".bootstrap").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "BOOTSTRAP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path of this tool.
func GoModule() string { load(); return defaults.GoModule }

// DefaultUser returns the owning user/org used when none is configured.
func DefaultUser() string { load(); return defaults.DefaultUser }

// DefaultHost returns the hosting domain used when none is configured.
func DefaultHost() string { load(); return defaults.DefaultHost }

// TemplateRepoURL returns the git URL of the default project template.
func TemplateRepoURL() string { load(); return defaults.TemplateRepoURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "BOOTSTRAP_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
