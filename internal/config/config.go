// Package config loads and validates the tinypub configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Pub     PubConfig     `yaml:"pub"`
	Content ContentConfig `yaml:"content"`
	State   StateConfig   `yaml:"state"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// SiteConfig holds the settings shared with the host site generator.
type SiteConfig struct {
	BaseURL         string            `yaml:"base_url"`
	OutputFolder    string            `yaml:"output_folder"`
	DefaultLang     string            `yaml:"default_lang"`
	Translations    map[string]string `yaml:"translations"` // language code -> URL/path prefix
	Timezone        string            `yaml:"timezone,omitempty"`
	PrettyURLs      *bool             `yaml:"pretty_urls,omitempty"`
	BlogAuthor      string            `yaml:"blog_author"`
	BlogTitle       Translatable      `yaml:"blog_title"`
	BlogDescription Translatable      `yaml:"blog_description"`
}

// PubConfig describes the single ActivityPub identity of the site.
type PubConfig struct {
	Author     string `yaml:"author"` // profile URI the actor points to via movedTo
	Name       string `yaml:"name"`
	Icon       string `yaml:"icon"` // path relative to base_url
	KeyPEM     string `yaml:"keypem,omitempty"`
	KeyPEMFile string `yaml:"keypem_file,omitempty"`
	Notice     string `yaml:"notice"`
}

// ContentConfig controls where posts are read from and how they are rendered.
type ContentConfig struct {
	Directory     string `yaml:"directory"`
	OutputDir     string `yaml:"output_dir"` // path below the output folder holding post pages
	AbsoluteLinks bool   `yaml:"absolute_links,omitempty"`
	UnsafeHTML    bool   `yaml:"unsafe_html,omitempty"`
}

// StateBackend names a build state store implementation.
type StateBackend string

const (
	StateBackendJSON   StateBackend = "json"
	StateBackendSQLite StateBackend = "sqlite"
	StateBackendNATS   StateBackend = "nats"
	StateBackendRedis  StateBackend = "redis"
)

// StateConfig selects where staleness records from previous builds are kept.
type StateConfig struct {
	Backend StateBackend `yaml:"backend"`
	Path    string       `yaml:"path,omitempty"`
	URL     string       `yaml:"url,omitempty"`
	Bucket  string       `yaml:"bucket,omitempty"`
	Retry   RetryConfig  `yaml:"retry,omitempty"`
}

// RetryBackoffMode selects how the delay between connection attempts grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// RetryConfig controls reconnect attempts to remote state backends.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff,omitempty"`
	Initial    time.Duration    `yaml:"initial,omitempty"`
	Max        time.Duration    `yaml:"max,omitempty"`
	MaxRetries int              `yaml:"max_retries,omitempty"` // 0 means a single attempt
}

// MetricsConfig configures Prometheus metric export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
	Listen   string `yaml:"listen,omitempty"` // address serving /metrics while watching
}

// WatchConfig configures the rebuild daemon.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Languages returns the active language codes, default language first and the
// rest in lexical order.
func (s SiteConfig) Languages() []string {
	return orderedLanguages(s.DefaultLang, s.Translations)
}

// UsePrettyURLs reports whether posts are written as <slug>/index.html.
func (s SiteConfig) UsePrettyURLs() bool {
	return s.PrettyURLs == nil || *s.PrettyURLs
}

// Location resolves the configured timezone.
func (s SiteConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Load loads configuration from the specified file, expanding ${VAR} references
// after loading .env files, then applies defaults and validates.
func Load(configPath string) (*Config, error) {
	if envPath, err := loadEnvFile(); err != nil {
		slog.Warn("Failed to load environment file", "path", envPath, "error", err)
	} else if envPath != "" {
		slog.Debug("Loaded environment variables", "path", envPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	// #nosec G304 - configPath is supplied by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.ConfigError("failed to read config file").
			WithContext("path", configPath).
			WithCause(err).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := resolveKeyFile(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML, expands ${VAR} references inside scalar values and
// applies defaults without validating required keys.
func Parse(data []byte) (*Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ferrors.ConfigError("failed to unmarshal config").WithCause(err).Build()
	}
	expandEnvNode(&root)

	var cfg Config
	if len(root.Content) > 0 {
		if err := root.Decode(&cfg); err != nil {
			return nil, ferrors.ConfigError("failed to unmarshal config").WithCause(err).Build()
		}
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveKeyFile(cfg *Config) error {
	if cfg.Pub.KeyPEM != "" || cfg.Pub.KeyPEMFile == "" {
		return nil
	}
	// #nosec G304 - keypem_file is supplied by the operator
	data, err := os.ReadFile(cfg.Pub.KeyPEMFile)
	if err != nil {
		return ferrors.ConfigError("failed to read public key file").
			WithContext("pub.keypem_file", cfg.Pub.KeyPEMFile).
			WithCause(err).
			Build()
	}
	cfg.Pub.KeyPEM = string(data)
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	pretty := true
	example := Config{
		Site: SiteConfig{
			BaseURL:         "https://example.com/",
			OutputFolder:    "output",
			DefaultLang:     "en",
			Translations:    map[string]string{"en": ""},
			Timezone:        "UTC",
			PrettyURLs:      &pretty,
			BlogAuthor:      "Your Name",
			BlogTitle:       Translatable{"": "My Blog"},
			BlogDescription: Translatable{"": "Notes and essays"},
		},
		Pub: PubConfig{
			Author: "https://mastodon.example/@you",
			Name:   "blog",
			Icon:   "images/avatar.png",
			KeyPEM: "${TINYPUB_KEYPEM}",
			Notice: "This account is a static mirror of my blog; replies are not read.",
		},
		Content: ContentConfig{
			Directory: "posts",
			OutputDir: "posts",
		},
		State: StateConfig{
			Backend: StateBackendJSON,
			Path:    ".tinypub/state.json",
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithContext("path", configPath).
			WithCause(err).
			Build()
	}
	return nil
}
