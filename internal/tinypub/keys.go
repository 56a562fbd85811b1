package tinypub

import (
	"git.home.luguber.info/inful/tinypub/internal/content"
	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/incremental"
)

// FormatVersion tags the layout of the generated documents. Bumping it
// regenerates every document.
const FormatVersion = "0.0.3"

type timelineEntry struct {
	Source     string            `json:"source"`
	Date       string            `json:"date"`
	Permalinks map[string]string `json:"permalinks"`
}

// configBundle is everything the WebFinger and actor documents depend on.
type configBundle struct {
	Version         string            `json:"tinypub_version"`
	Translations    map[string]string `json:"translations"`
	OutputFolder    string            `json:"output_folder"`
	BaseURL         string            `json:"base_url"`
	BlogAuthor      string            `json:"blog_author"`
	BlogTitle       string            `json:"blog_title"`
	BlogDescription string            `json:"blog_description"`
	PubAuthor       string            `json:"pub_author"`
	PubName         string            `json:"pub_name"`
	PubIcon         string            `json:"pub_icon"`
	PubKeyPEM       string            `json:"pub_keypem"`
	PubNotice       string            `json:"pub_notice"`
	Timeline        []timelineEntry   `json:"timeline"`
}

func (g *Generator) configKey(timeline []content.Post) (string, error) {
	entries := make([]timelineEntry, 0, len(timeline))
	for _, post := range timeline {
		links := make(map[string]string, len(g.site.Languages))
		for _, lang := range g.site.Languages {
			links[lang] = post.Permalink(lang, false, "")
		}
		entries = append(entries, timelineEntry{
			Source:     post.SourcePath(),
			Date:       post.Date().String(),
			Permalinks: links,
		})
	}

	key, err := incremental.ConfigChanged(configBundle{
		Version:         FormatVersion,
		Translations:    g.site.Translations,
		OutputFolder:    g.site.OutputFolder,
		BaseURL:         g.site.BaseURL,
		BlogAuthor:      g.site.BlogAuthor,
		BlogTitle:       g.site.title(),
		BlogDescription: g.site.description(),
		PubAuthor:       g.site.PubAuthor,
		PubName:         g.site.PubName,
		PubIcon:         g.site.PubIcon,
		PubKeyPEM:       g.site.PubKeyPEM,
		PubNotice:       g.site.PubNotice,
		Timeline:        entries,
	})
	if err != nil {
		return "", ferrors.InternalError("failed to hash site configuration").WithCause(err).Build()
	}
	return key, nil
}

// noteKey covers exactly the post values a Note renders. The title appears
// twice; both slots are kept so existing keys stay valid.
func noteKey(post content.Post, lang string) (string, error) {
	key, err := incremental.ConfigChanged(map[int]string{
		1: post.Text(lang),
		2: post.Title(lang),
		3: post.Permalink(lang, false, ""),
		4: post.Title(lang),
		5: FormatVersion,
	})
	if err != nil {
		return "", ferrors.InternalError("failed to hash note").
			WithContext("post", post.SourcePath()).
			WithContext("lang", lang).
			WithCause(err).
			Build()
	}
	return key, nil
}
