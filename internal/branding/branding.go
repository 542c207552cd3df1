// Package branding provides compile-time identity values for the CLI.
//
// Forkers who maintain their own collection edit branding.yaml in this
// package and rebuild. Go's //go:embed bakes the values into the binary.
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
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GitHubRepo     string `yaml:"github_repo"`
	CollectionRepo string `yaml:"collection_repo"`
	CollectionRef  string `yaml:"collection_ref"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or incomplete.
		defaults = brand{
			CLIName:        "occm",
			DisplayName:    "OCCM",
			Description:    "Collection manager for opencode agents, skills, and commands",
			HomeDir:        ".occm",
			EnvPrefix:      "OCCM",
			GitHubRepo:     "occm-labs/occm",
			CollectionRepo: "occm-labs/opencode-base-collection",
			CollectionRef:  "main",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "occm").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "OCCM").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".occm").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "OCCM").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string hosting the CLI's own releases.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// CollectionRepo returns the "owner/repo" string of the default collection.
func CollectionRepo() string { load(); return defaults.CollectionRepo }

// CollectionRef returns the default branch of the collection repository.
func CollectionRef() string { load(); return defaults.CollectionRef }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("PROJECT") → "OCCM_PROJECT".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
