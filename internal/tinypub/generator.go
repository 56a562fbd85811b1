package tinypub

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/tinypub/internal/activitypub"
	"git.home.luguber.info/inful/tinypub/internal/build"
	"git.home.luguber.info/inful/tinypub/internal/content"
	"git.home.luguber.info/inful/tinypub/internal/logfields"
)

const (
	// Basename prefixes the name of every job.
	Basename = "tinypub"
	// RenderPostsTask is the host task that renders post bodies.
	RenderPostsTask = "render_posts"

	jobWebFinger = "webfinger"
	jobActor     = "actor.jsonld"

	// KindWebFinger, KindActor and KindNote label job metrics by document type.
	KindWebFinger = "webfinger"
	KindActor     = "actor"
	KindNote      = "note"
)

// Generator enumerates the jobs of one build.
type Generator struct {
	site  Site
	actor activitypub.Actor
}

// NewGenerator creates a Generator for site.
func NewGenerator(site Site) *Generator {
	return &Generator{site: site, actor: activitypub.NewActor(site.BaseURL, site.PubName)}
}

// Jobs returns the WebFinger job, the actor job, and one note job per
// language and post, in that order. Errors only arise from hashing
// staleness keys.
func (g *Generator) Jobs(timeline []content.Post) ([]build.Job, error) {
	siteKey, err := g.configKey(timeline)
	if err != nil {
		return nil, err
	}

	jobs := make([]build.Job, 0, 2+len(g.site.Languages)*len(timeline))
	jobs = append(jobs, g.webFingerJob(siteKey), g.actorJob(siteKey))

	for _, lang := range g.site.Languages {
		for _, post := range timeline {
			job, err := g.noteJob(post, lang)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// WebFingerPath is the target of the WebFinger job.
func (g *Generator) WebFingerPath() string {
	return filepath.Join(g.site.OutputFolder, ".well-known", "webfinger")
}

// ActorPath is the target of the Person document.
func (g *Generator) ActorPath() string {
	return filepath.Join(g.site.OutputFolder, activitypub.ActorDir, g.site.PubName+activitypub.DocumentExt)
}

// CollectionPath is the target of one actor collection.
func (g *Generator) CollectionPath(name string) string {
	return filepath.Join(g.site.OutputFolder, activitypub.ActorDir, g.site.PubName+"."+name+activitypub.DocumentExt)
}

// NotePath is the target of the note for post in lang.
func (g *Generator) NotePath(post content.Post, lang string) string {
	return filepath.Join(g.site.OutputFolder, filepath.FromSlash(post.DestinationPath(lang, activitypub.DocumentExt)))
}

func (g *Generator) webFingerJob(key string) build.Job {
	target := g.WebFingerPath()
	return build.Job{
		Basename: Basename,
		Name:     jobWebFinger,
		Kind:     KindWebFinger,
		Targets:  []string{target},
		TaskDeps: []string{RenderPostsTask},
		Key:      key,
		Action: func(context.Context) error {
			doc, err := activitypub.NewWebFinger(g.actor)
			if err != nil {
				return err
			}
			slog.Debug("Writing WebFinger document", logfields.Target(target))
			return activitypub.WriteDocument(target, doc)
		},
	}
}

func (g *Generator) actorJob(key string) build.Job {
	targets := []string{g.ActorPath()}
	for _, name := range activitypub.CollectionNames {
		targets = append(targets, g.CollectionPath(name))
	}
	return build.Job{
		Basename: Basename,
		Name:     jobActor,
		Kind:     KindActor,
		Targets:  targets,
		TaskDeps: []string{RenderPostsTask},
		Key:      key,
		Action: func(context.Context) error {
			person := activitypub.NewPerson(g.actor, activitypub.Profile{
				BaseURL:      g.site.BaseURL,
				IconPath:     g.site.PubIcon,
				MovedTo:      g.site.PubAuthor,
				Name:         g.site.title(),
				Notice:       g.site.PubNotice,
				Description:  g.site.description(),
				PublicKeyPEM: g.site.PubKeyPEM,
			})
			slog.Debug("Writing actor documents", logfields.Target(targets[0]), logfields.Targets(len(targets)))
			if err := activitypub.WriteDocument(targets[0], person); err != nil {
				return err
			}
			for _, name := range activitypub.CollectionNames {
				if err := activitypub.WriteDocument(g.CollectionPath(name), activitypub.NewEmptyCollection(g.actor, name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (g *Generator) noteJob(post content.Post, lang string) (build.Job, error) {
	key, err := noteKey(post, lang)
	if err != nil {
		return build.Job{}, err
	}
	target := g.NotePath(post, lang)
	return build.Job{
		Basename: Basename,
		Name:     target,
		Kind:     KindNote,
		Targets:  []string{target},
		FileDeps: post.FragmentDeps(lang),
		TaskDeps: []string{RenderPostsTask},
		Key:      key,
		Action: func(context.Context) error {
			note := activitypub.NewNote(g.actor, activitypub.NoteFields{
				ID:        post.Permalink(lang, true, activitypub.DocumentExt),
				URL:       post.Permalink(lang, true, ""),
				Content:   post.Text(lang),
				Summary:   post.Title(lang),
				Published: post.Date().In(g.site.Location),
			})
			slog.Debug("Writing note", logfields.Target(target), logfields.Lang(lang), logfields.Post(post.SourcePath()))
			return activitypub.WriteDocument(target, note)
		},
	}, nil
}
