package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

const testPEM = `-----BEGIN PUBLIC KEY-----
MFkwEwYHKoZIzj0CAQYIKoZIzj0DAQcDQgAEEVs/o5+uQbTjL3chynL4wXgUg2R9
q9UU8I5mEovUf86QZ7kOBIjJwqnzD1omageEHWwHdBO6B+dFabmdT9POxg==
-----END PUBLIC KEY-----
`

const validYAML = `
site:
  base_url: https://example.com
  output_folder: output
  default_lang: en
  translations:
    en: ""
    fr: fr
    de: de
  blog_author: Jane
  blog_title:
    en: Notes
    fr: Carnet
  blog_description: Things I write
pub:
  author: https://social.example/@jane
  name: blog
  icon: images/icon.png
  keypem: ${TINYPUB_TEST_KEYPEM}
  notice: Static mirror.
watch:
  interval: 10m
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinypub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TINYPUB_TEST_KEYPEM", testPEM)

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Equal(t, "https://example.com/", cfg.Site.BaseURL, "trailing slash is added")
	require.Equal(t, testPEM, cfg.Pub.KeyPEM)
	require.Equal(t, []string{"en", "de", "fr"}, cfg.Site.Languages())
	require.True(t, cfg.Site.UsePrettyURLs())
	require.Equal(t, StateBackendJSON, cfg.State.Backend)
	require.Equal(t, ".tinypub/state.json", cfg.State.Path)
	require.Equal(t, "tinypub", cfg.State.Bucket)
	require.Equal(t, RetryBackoffLinear, cfg.State.Retry.Backoff)
	require.Equal(t, time.Second, cfg.State.Retry.Initial)
	require.Zero(t, cfg.State.Retry.MaxRetries)
	require.Equal(t, "posts", cfg.Content.Directory)
	require.Equal(t, 10*time.Minute, cfg.Watch.Interval)
	require.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	require.Equal(t, "Carnet", cfg.Site.BlogTitle.Get("fr", "en"))
	require.Equal(t, "Notes", cfg.Site.BlogTitle.Get("de", "en"), "falls back to default language")
	require.Equal(t, "Things I write", cfg.Site.BlogDescription.Get("fr", "en"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_KeyPEMFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(keyPath, []byte(testPEM), 0o600))
	t.Setenv("TINYPUB_TEST_KEYPEM", "")

	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	cfg.Pub.KeyPEMFile = keyPath
	require.NoError(t, resolveKeyFile(cfg))
	require.Equal(t, testPEM, cfg.Pub.KeyPEM)
	require.NoError(t, ValidateConfig(cfg))
}

func TestValidate_ReportsAllMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  base_url: https://example.com/\n"))
	require.NoError(t, err)

	err = ValidateConfig(cfg)
	require.Error(t, err)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryConfig, classified.Category())
	missing, _ := classified.Context().GetString("missing")
	for _, key := range []string{"site.output_folder", "site.translations", "site.blog_title", "pub.name", "pub.keypem", "pub.notice"} {
		require.Contains(t, missing, key)
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	t.Setenv("TINYPUB_TEST_KEYPEM", testPEM)
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	cfg.Site.BaseURL = "example.com/"
	cfg.Site.Timezone = "Mars/Olympus"
	cfg.State.Backend = "etcd"
	cfg.State.Retry.Backoff = "random"
	cfg.Pub.Name = "my blog"

	err = ValidateConfig(cfg)
	require.Error(t, err)
	classified, _ := ferrors.AsClassified(err)
	invalid, _ := classified.Context().GetString("invalid")
	require.Contains(t, invalid, "site.base_url")
	require.Contains(t, invalid, "site.timezone")
	require.Contains(t, invalid, "state.backend")
	require.Contains(t, invalid, "state.retry.backoff")
	require.Contains(t, invalid, "pub.name")
}

func TestSingleTranslationBecomesDefault(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  translations: {fr: \"\"}\n"))
	require.NoError(t, err)
	require.Equal(t, "fr", cfg.Site.DefaultLang)
	require.Equal(t, []string{"fr"}, cfg.Site.Languages())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinypub.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err, "refuses to overwrite without force")
	require.NoError(t, Init(path, true))

	t.Setenv("TINYPUB_KEYPEM", testPEM)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "blog", cfg.Pub.Name)
	require.Equal(t, "My Blog", cfg.Site.BlogTitle.Get("en", "en"))
	require.Equal(t, testPEM, cfg.Pub.KeyPEM, "multi-line key survives expansion")
	require.NoError(t, ValidateConfig(cfg))
}

func TestParse_ExpandsPlainScalarsWithTheirType(t *testing.T) {
	t.Setenv("TINYPUB_TEST_PRETTY", "false")
	t.Setenv("TINYPUB_TEST_HOST", "example.org")

	cfg, err := Parse([]byte("site:\n  base_url: https://${TINYPUB_TEST_HOST}/\n  pretty_urls: ${TINYPUB_TEST_PRETTY}\n"))
	require.NoError(t, err)
	require.Equal(t, "https://example.org/", cfg.Site.BaseURL)
	require.False(t, cfg.Site.UsePrettyURLs())
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, StateBackendJSON, cfg.State.Backend)
}
