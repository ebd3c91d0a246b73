// Package config loads brandprobe settings from a YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brandprobe/brandprobe/internal/investigation"
)

// Config captures everything needed to run an investigation.
type Config struct {
	Credentials CredentialsConfig `yaml:"credentials"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Options     OptionsConfig     `yaml:"options"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CredentialsConfig holds the four fixed credential slots. Search and
// analysis are required; scrape and profile are optional and their absence
// degrades the report instead of failing the run.
type CredentialsConfig struct {
	Search   string `yaml:"search"`
	Analysis string `yaml:"analysis"`
	Scrape   string `yaml:"scrape"`
	Profile  string `yaml:"profile"`
}

// AnalysisConfig configures the generative-language backend.
type AnalysisConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseURL"`
}

// OptionsConfig tunes run behaviour.
type OptionsConfig struct {
	SearchBaseURL  string  `yaml:"searchBaseURL"`
	ScrapeBaseURL  string  `yaml:"scrapeBaseURL"`
	ProfileBaseURL string  `yaml:"profileBaseURL"`
	ProfileRateRPS float64 `yaml:"profileRateRPS"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and environment overrides.
// An empty path falls back to BRANDPROBE_CONFIG, then to defaults only.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BRANDPROBE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// CoreCredentials returns the credential slots as the core type.
func (c *Config) CoreCredentials() investigation.Credentials {
	return investigation.Credentials{
		Search:   strings.TrimSpace(c.Credentials.Search),
		Analysis: strings.TrimSpace(c.Credentials.Analysis),
		Scrape:   strings.TrimSpace(c.Credentials.Scrape),
		Profile:  strings.TrimSpace(c.Credentials.Profile),
	}
}

func defaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{Model: "gemini-2.0-flash"},
		Options:  OptionsConfig{ProfileRateRPS: 1},
		Logging:  LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BRANDPROBE_SEARCH_KEY"); v != "" {
		cfg.Credentials.Search = v
	}
	if v := os.Getenv("BRANDPROBE_ANALYSIS_KEY"); v != "" {
		cfg.Credentials.Analysis = v
	}
	if v := os.Getenv("BRANDPROBE_SCRAPE_KEY"); v != "" {
		cfg.Credentials.Scrape = v
	}
	if v := os.Getenv("BRANDPROBE_PROFILE_KEY"); v != "" {
		cfg.Credentials.Profile = v
	}
	if v := os.Getenv("BRANDPROBE_ANALYSIS_MODEL"); v != "" {
		cfg.Analysis.Model = v
	}
	if v := os.Getenv("BRANDPROBE_ANALYSIS_BASE_URL"); v != "" {
		cfg.Analysis.BaseURL = v
	}
	if v := os.Getenv("BRANDPROBE_SEARCH_BASE_URL"); v != "" {
		cfg.Options.SearchBaseURL = v
	}
	if v := os.Getenv("BRANDPROBE_SCRAPE_BASE_URL"); v != "" {
		cfg.Options.ScrapeBaseURL = v
	}
	if v := os.Getenv("BRANDPROBE_PROFILE_BASE_URL"); v != "" {
		cfg.Options.ProfileBaseURL = v
	}
	if v := os.Getenv("BRANDPROBE_PROFILE_RATE_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Options.ProfileRateRPS = rps
		}
	}
	if v := os.Getenv("BRANDPROBE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BRANDPROBE_LOG_FORMAT"); strings.EqualFold(v, "json") {
		cfg.Logging.JSON = true
	}
}
