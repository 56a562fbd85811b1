package config

import (
	"strings"
	"time"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier normalises site settings.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.DefaultLang == "" {
		cfg.Site.DefaultLang = "en"
		if len(cfg.Site.Translations) == 1 {
			for lang := range cfg.Site.Translations {
				cfg.Site.DefaultLang = lang
			}
		}
	}
	if cfg.Site.BaseURL != "" && !strings.HasSuffix(cfg.Site.BaseURL, "/") {
		cfg.Site.BaseURL += "/"
	}
	return nil
}

// ContentDefaultApplier fills content directory defaults.
type ContentDefaultApplier struct{}

func (ContentDefaultApplier) Domain() string { return "content" }

func (ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Directory == "" {
		cfg.Content.Directory = "posts"
	}
	if cfg.Content.OutputDir == "" {
		cfg.Content.OutputDir = "posts"
	}
	cfg.Content.OutputDir = strings.Trim(cfg.Content.OutputDir, "/")
	return nil
}

// StateDefaultApplier picks the JSON file backend unless configured otherwise.
type StateDefaultApplier struct{}

func (StateDefaultApplier) Domain() string { return "state" }

func (StateDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.State.Backend == "" {
		cfg.State.Backend = StateBackendJSON
	}
	cfg.State.Backend = StateBackend(strings.ToLower(string(cfg.State.Backend)))
	if cfg.State.Path == "" {
		switch cfg.State.Backend {
		case StateBackendJSON:
			cfg.State.Path = ".tinypub/state.json"
		case StateBackendSQLite:
			cfg.State.Path = ".tinypub/state.db"
		}
	}
	if cfg.State.Bucket == "" {
		cfg.State.Bucket = "tinypub"
	}

	retry := &cfg.State.Retry
	if retry.Backoff == "" {
		retry.Backoff = RetryBackoffLinear
	}
	retry.Backoff = RetryBackoffMode(strings.ToLower(string(retry.Backoff)))
	if retry.Initial <= 0 {
		retry.Initial = time.Second
	}
	if retry.Max <= 0 {
		retry.Max = 30 * time.Second
	}
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return nil
}

// WatchDefaultApplier sets the debounce window for the rebuild daemon.
type WatchDefaultApplier struct{}

func (WatchDefaultApplier) Domain() string { return "watch" }

func (WatchDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 2 * time.Second
	}
	if cfg.Watch.Interval < 0 {
		cfg.Watch.Interval = 0
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		SiteDefaultApplier{},
		ContentDefaultApplier{},
		StateDefaultApplier{},
		WatchDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
