package config

import (
	"fmt"
	"net/url"
	"strings"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// ValidateConfig checks every required setting and reports all missing keys in
// a single configuration error.
func ValidateConfig(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config  *Config
	missing []string
	invalid []string
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	cv.validateSite()
	cv.validatePub()
	cv.validateState()

	if len(cv.missing) > 0 {
		return ferrors.ConfigError("missing required settings").
			WithContext("missing", strings.Join(cv.missing, ", ")).
			Build()
	}
	if len(cv.invalid) > 0 {
		return ferrors.ConfigError("invalid settings").
			WithContext("invalid", strings.Join(cv.invalid, "; ")).
			Build()
	}
	return nil
}

func (cv *configurationValidator) require(key, value string) {
	if strings.TrimSpace(value) == "" {
		cv.missing = append(cv.missing, key)
	}
}

func (cv *configurationValidator) reject(format string, args ...any) {
	cv.invalid = append(cv.invalid, fmt.Sprintf(format, args...))
}

func (cv *configurationValidator) validateSite() {
	site := cv.config.Site
	cv.require("site.base_url", site.BaseURL)
	cv.require("site.output_folder", site.OutputFolder)
	cv.require("site.blog_author", site.BlogAuthor)
	if site.BlogTitle.IsEmpty() {
		cv.missing = append(cv.missing, "site.blog_title")
	}
	if site.BlogDescription.IsEmpty() {
		cv.missing = append(cv.missing, "site.blog_description")
	}
	if len(site.Translations) == 0 {
		cv.missing = append(cv.missing, "site.translations")
	} else if _, ok := site.Translations[site.DefaultLang]; !ok {
		cv.reject("site.default_lang %q is not listed in site.translations", site.DefaultLang)
	}

	if site.BaseURL != "" {
		u, err := url.Parse(site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			cv.reject("site.base_url %q must be an absolute URL", site.BaseURL)
		}
	}
	if _, err := site.Location(); err != nil {
		cv.reject("site.timezone %q: %v", site.Timezone, err)
	}
}

func (cv *configurationValidator) validatePub() {
	pub := cv.config.Pub
	cv.require("pub.author", pub.Author)
	cv.require("pub.name", pub.Name)
	cv.require("pub.icon", pub.Icon)
	cv.require("pub.notice", pub.Notice)
	if strings.TrimSpace(pub.KeyPEM) == "" {
		cv.missing = append(cv.missing, "pub.keypem")
	} else if !strings.Contains(pub.KeyPEM, "-----BEGIN") {
		cv.reject("pub.keypem is not PEM encoded")
	}
	if strings.ContainsAny(pub.Name, "/@ ") {
		cv.reject("pub.name %q must not contain '/', '@' or spaces", pub.Name)
	}
}

func (cv *configurationValidator) validateState() {
	st := cv.config.State
	switch st.Backend {
	case StateBackendJSON, StateBackendSQLite:
		cv.require("state.path", st.Path)
	case StateBackendNATS, StateBackendRedis:
		cv.require("state.url", st.URL)
	default:
		cv.reject("state.backend %q must be one of json, sqlite, nats, redis", st.Backend)
	}
	switch st.Retry.Backoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		cv.reject("state.retry.backoff %q must be one of fixed, linear, exponential", st.Retry.Backoff)
	}
}
