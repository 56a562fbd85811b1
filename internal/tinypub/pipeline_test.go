package tinypub

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/tinypub/internal/config"
	"git.home.luguber.info/inful/tinypub/internal/metrics"
	"git.home.luguber.info/inful/tinypub/internal/state"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	posts := filepath.Join(dir, "posts")
	require.NoError(t, os.MkdirAll(posts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(posts, "hello.md"), []byte("---\ntitle: Hello\ndate: 2024-01-05\n---\nHi\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(posts, "hello.fr.md"), []byte("---\ntitle: Bonjour\n---\nSalut\n"), 0o600))

	cfg, err := config.Parse([]byte(`
site:
  base_url: https://example.com/
  output_folder: ` + filepath.Join(dir, "output") + `
  default_lang: en
  translations: {en: "", fr: fr}
  blog_author: Jane
  blog_title: {en: Notes, fr: Carnet}
  blog_description: Things
pub:
  author: https://social.example/@jane
  name: blog
  icon: images/icon.png
  keypem: "-----BEGIN PUBLIC KEY----- MFkw -----END PUBLIC KEY-----"
  notice: Static mirror.
content:
  directory: ` + posts + `
state:
  backend: json
  path: ` + filepath.Join(dir, "state.json") + `
`))
	require.NoError(t, err)
	require.NoError(t, config.ValidateConfig(cfg))
	return cfg
}

func TestSiteFromConfig(t *testing.T) {
	cfg := testConfig(t)
	site, err := SiteFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"en", "fr"}, site.Languages)
	require.Equal(t, "Notes", site.BlogTitle())

	cfg.Site.BlogTitle = config.Translatable{"en": "Patched"}
	require.Equal(t, "Patched", site.BlogTitle())
}

func TestPipeline_BuildIsIncremental(t *testing.T) {
	cfg := testConfig(t)
	store, err := state.Open(context.Background(), cfg.State)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	p := NewPipeline(cfg, store, metrics.NoopRecorder{})

	res, err := p.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, res.Executed(), "webfinger, actor and two notes")

	out := cfg.Site.OutputFolder
	require.FileExists(t, filepath.Join(out, ".well-known", "webfinger"))
	require.FileExists(t, filepath.Join(out, "posts", "hello", "index.jsonld"))
	require.FileExists(t, filepath.Join(out, "fr", "posts", "hello", "index.jsonld"))

	res, err = p.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Executed())

	cfg.Pub.Notice = "Changed."
	plan, err := p.Plan(context.Background())
	require.NoError(t, err)
	stale := 0
	for _, s := range plan {
		if s.Stale() {
			stale++
		}
	}
	require.Equal(t, 2, stale, "only webfinger and actor")

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.Directory, "hello.fr.md"), []byte("---\ntitle: Bonjour\n---\nSalut encore\n"), 0o600))
	res, err = p.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Executed(), "webfinger, actor and the French note")
}
