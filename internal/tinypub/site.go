package tinypub

import (
	"time"

	"git.home.luguber.info/inful/tinypub/internal/config"
	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// Site is the read-only configuration of one build.
type Site struct {
	BaseURL      string
	OutputFolder string
	BlogAuthor   string
	// BlogTitle and BlogDescription are evaluated when a document is written,
	// so the host can still patch them after jobs were enumerated.
	BlogTitle       func() string
	BlogDescription func() string

	PubName   string
	PubAuthor string
	PubIcon   string
	PubKeyPEM string
	PubNotice string

	// Languages holds the active language codes, default language first.
	Languages []string
	// Translations maps language codes to their URL prefix.
	Translations map[string]string
	// Location interprets post dates that carry no zone.
	Location *time.Location
}

// SiteFromConfig resolves a validated configuration into a Site. Title and
// description are read through cfg on every call.
func SiteFromConfig(cfg *config.Config) (Site, error) {
	loc, err := cfg.Site.Location()
	if err != nil {
		return Site{}, ferrors.ConfigError("invalid site timezone").
			WithContext("site.timezone", cfg.Site.Timezone).
			WithCause(err).
			Build()
	}
	defaultLang := cfg.Site.DefaultLang
	return Site{
		BaseURL:      cfg.Site.BaseURL,
		OutputFolder: cfg.Site.OutputFolder,
		BlogAuthor:   cfg.Site.BlogAuthor,
		BlogTitle: func() string {
			return cfg.Site.BlogTitle.Get(defaultLang, defaultLang)
		},
		BlogDescription: func() string {
			return cfg.Site.BlogDescription.Get(defaultLang, defaultLang)
		},
		PubName:      cfg.Pub.Name,
		PubAuthor:    cfg.Pub.Author,
		PubIcon:      cfg.Pub.Icon,
		PubKeyPEM:    cfg.Pub.KeyPEM,
		PubNotice:    cfg.Pub.Notice,
		Languages:    cfg.Site.Languages(),
		Translations: cfg.Site.Translations,
		Location:     loc,
	}, nil
}

func (s Site) title() string {
	if s.BlogTitle == nil {
		return ""
	}
	return s.BlogTitle()
}

func (s Site) description() string {
	if s.BlogDescription == nil {
		return ""
	}
	return s.BlogDescription()
}
