// Package config provides centralized configuration management for the application.
package config

import (
	"fmt"
	"strings"

	"github.com/danielolaszy/issuedir/internal/search"
	"github.com/spf13/viper"
)

// DefaultOrganizations are the organizations whose notifications are kept.
var DefaultOrganizations = []string{"ubiquity", "ubiquity-os", "ubiquity-os-marketplace"}

// Config holds all configuration parameters for the application.
type Config struct {
	GitHub    GitHubConfig
	Directory DirectoryConfig
	Search    search.Config
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string
}

// APIURL returns the REST endpoint for the configured domain.
func (g GitHubConfig) APIURL() string {
	if g.Domain == "" || g.Domain == "github.com" {
		return "https://api.github.com/"
	}
	return fmt.Sprintf("https://%s/api/v3/", g.Domain)
}

// DirectoryConfig selects what the directory aggregates.
type DirectoryConfig struct {
	// Organizations filters notifications by repository owner
	Organizations []string

	// Repositories lists "owner/repo" entries whose open issues form the directory
	Repositories []string
}

// LoadConfig loads configuration from the optional YAML file at path and
// from environment variables, which take precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := search.DefaultConfig()
	v.SetDefault("github.domain", "github.com")
	v.SetDefault("directory.organizations", DefaultOrganizations)
	v.SetDefault("search.fuzzy_threshold", defaults.FuzzySearchThreshold)
	v.SetDefault("search.exact_match_bonus", defaults.ExactMatchBonus)
	v.SetDefault("search.fuzzy_match_weight", defaults.FuzzyMatchWeight)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// Map specific environment variables
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("directory.organizations", "ISSUEDIR_ORGS")
	v.BindEnv("directory.repositories", "ISSUEDIR_REPOS")
	v.BindEnv("search.fuzzy_threshold", "ISSUEDIR_FUZZY_THRESHOLD")
	v.BindEnv("search.exact_match_bonus", "ISSUEDIR_EXACT_MATCH_BONUS")
	v.BindEnv("search.fuzzy_match_weight", "ISSUEDIR_FUZZY_MATCH_WEIGHT")

	config := &Config{
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Domain: v.GetString("github.domain"),
		},
		Directory: DirectoryConfig{
			Organizations: stringList(v, "directory.organizations"),
			Repositories:  stringList(v, "directory.repositories"),
		},
		Search: search.Config{
			FuzzySearchThreshold: v.GetFloat64("search.fuzzy_threshold"),
			ExactMatchBonus:      v.GetFloat64("search.exact_match_bonus"),
			FuzzyMatchWeight:     v.GetFloat64("search.fuzzy_match_weight"),
		},
	}

	if config.GitHub.Domain == "" {
		config.GitHub.Domain = "github.com"
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// stringList reads a list that is either a YAML sequence or a comma separated
// environment value.
func stringList(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// validateConfig ensures the loaded values are usable.
func validateConfig(config *Config) error {
	var problems []string

	if config.Search.FuzzySearchThreshold < 0 {
		problems = append(problems, "search.fuzzy_threshold must not be negative")
	}
	if config.Search.ExactMatchBonus < 0 {
		problems = append(problems, "search.exact_match_bonus must not be negative")
	}
	if config.Search.FuzzyMatchWeight < 0 {
		problems = append(problems, "search.fuzzy_match_weight must not be negative")
	}

	for _, repository := range config.Directory.Repositories {
		if parts := strings.Split(repository, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			problems = append(problems, fmt.Sprintf("invalid repository %q, expected owner/repo", repository))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

// ValidateGitHubConfig validates what network access to GitHub requires.
func ValidateGitHubConfig(config *Config) error {
	var missingVars []string

	if config.GitHub.Token == "" {
		missingVars = append(missingVars, "GITHUB_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	return nil
}
