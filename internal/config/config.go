package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every run input. Owner, repo, branch and workspace marker
// are opaque strings used only for link construction; they are never
// validated beyond presence.
type Config struct {
	// Repository identity for permalinks
	Owner  string `mapstructure:"owner" yaml:"owner"`
	Repo   string `mapstructure:"repo" yaml:"repo"`
	Branch string `mapstructure:"branch" yaml:"branch"`

	// Workspace marker: paths are relativized at the first occurrence of
	// this fragment
	Workspace string `mapstructure:"workspace" yaml:"workspace"`

	// Glob patterns selecting project files (go.mod) to analyze
	Projects []string `mapstructure:"projects" yaml:"projects"`

	// Directory the two documents are written into
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Analyze projects concurrently; aggregation order stays deterministic
	Parallel bool `mapstructure:"parallel" yaml:"parallel"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Branch:    "main",
		Workspace: "src",
		OutputDir: ".",
	}
}

// Load builds the configuration from .env files, environment variables
// and an optional yaml config file, in that order of precedence.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("branch", cfg.Branch)
	v.SetDefault("workspace", cfg.Workspace)
	v.SetDefault("output_dir", cfg.OutputDir)

	v.SetEnvPrefix("MODREPORT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("modreport")
		v.AddConfigPath(".")
		v.AddConfigPath(".github")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; flags and env carry the run inputs.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

// applyEnvOverrides fills identity inputs from the variables the CI
// runner already exports.
func applyEnvOverrides(cfg *Config) {
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		if owner, name, ok := strings.Cut(repo, "/"); ok {
			if cfg.Owner == "" {
				cfg.Owner = owner
			}
			if cfg.Repo == "" {
				cfg.Repo = name
			}
		}
	}
	if ref := os.Getenv("GITHUB_REF_NAME"); ref != "" && cfg.Branch == Default().Branch {
		cfg.Branch = ref
	}
}

// Validate reports every missing required input at once. A failed
// validation is fatal before any analysis starts.
func (c *Config) Validate() error {
	var missing []string
	if c.Owner == "" {
		missing = append(missing, "owner")
	}
	if c.Repo == "" {
		missing = append(missing, "repo")
	}
	if c.Branch == "" {
		missing = append(missing, "branch")
	}
	if c.Workspace == "" {
		missing = append(missing, "workspace")
	}
	if len(c.Projects) == 0 {
		missing = append(missing, "projects")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
