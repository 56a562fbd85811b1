package tinypub

import (
	"context"

	"git.home.luguber.info/inful/tinypub/internal/build"
	"git.home.luguber.info/inful/tinypub/internal/config"
	"git.home.luguber.info/inful/tinypub/internal/content"
	"git.home.luguber.info/inful/tinypub/internal/markdown"
	"git.home.luguber.info/inful/tinypub/internal/metrics"
	"git.home.luguber.info/inful/tinypub/internal/state"
)

// Pipeline wires the content loader, the generator and the runner for one
// configuration.
type Pipeline struct {
	cfg    *config.Config
	runner *build.Runner
}

// NewPipeline creates a Pipeline that records job state in store.
func NewPipeline(cfg *config.Config, store state.Store, rec metrics.Recorder) *Pipeline {
	return &Pipeline{cfg: cfg, runner: build.NewRunner(store).WithRecorder(rec)}
}

// NewLoader builds the timeline loader described by cfg.
func NewLoader(cfg *config.Config) *content.Loader {
	return &content.Loader{
		Directory: cfg.Content.Directory,
		Layout: content.Layout{
			BaseURL:      cfg.Site.BaseURL,
			DefaultLang:  cfg.Site.DefaultLang,
			Translations: cfg.Site.Translations,
			OutputDir:    cfg.Content.OutputDir,
			PrettyURLs:   cfg.Site.UsePrettyURLs(),
		},
		Renderer:      markdown.NewRenderer(markdown.Options{Unsafe: cfg.Content.UnsafeHTML}),
		AbsoluteLinks: cfg.Content.AbsoluteLinks,
	}
}

// Jobs loads the timeline and enumerates the build jobs.
func (p *Pipeline) Jobs() ([]build.Job, error) {
	site, err := SiteFromConfig(p.cfg)
	if err != nil {
		return nil, err
	}
	timeline, err := NewLoader(p.cfg).Load()
	if err != nil {
		return nil, err
	}
	return NewGenerator(site).Jobs(timeline)
}

// Build runs every stale job.
func (p *Pipeline) Build(ctx context.Context) (*build.Result, error) {
	jobs, err := p.Jobs()
	if err != nil {
		return nil, err
	}
	return p.runner.Run(ctx, jobs)
}

// Plan reports which jobs a build would run.
func (p *Pipeline) Plan(ctx context.Context) ([]build.JobStatus, error) {
	jobs, err := p.Jobs()
	if err != nil {
		return nil, err
	}
	return p.runner.Plan(ctx, jobs)
}
