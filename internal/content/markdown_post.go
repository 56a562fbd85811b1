package content

import (
	"path"
	"strings"
)

const pageExt = ".html"

// variant is one language version of a post.
type variant struct {
	title  string
	html   string
	source string
}

// MarkdownPost is a Post loaded from markdown files with YAML front matter.
// Languages without a translation file fall back to the default language.
type MarkdownPost struct {
	slug        string
	date        PublishDate
	defaultLang string
	variants    map[string]variant
	layout      *Layout
}

// Layout holds the site-wide path settings posts need to compute their URLs.
type Layout struct {
	BaseURL      string
	DefaultLang  string
	Translations map[string]string // lang -> path prefix
	OutputDir    string            // directory below the output folder holding posts
	PrettyURLs   bool
}

func (p *MarkdownPost) variant(lang string) variant {
	if v, ok := p.variants[lang]; ok {
		return v
	}
	return p.variants[p.defaultLang]
}

// Title implements Post.
func (p *MarkdownPost) Title(lang string) string { return p.variant(lang).title }

// Text implements Post.
func (p *MarkdownPost) Text(lang string) string { return p.variant(lang).html }

// Date implements Post.
func (p *MarkdownPost) Date() PublishDate { return p.date }

// SourcePath implements Post.
func (p *MarkdownPost) SourcePath() string { return p.variants[p.defaultLang].source }

// FragmentDeps implements Post.
func (p *MarkdownPost) FragmentDeps(lang string) []string {
	return []string{p.variant(lang).source}
}

// DestinationPath implements Post.
func (p *MarkdownPost) DestinationPath(lang, ext string) string {
	if ext == "" {
		ext = pageExt
	}
	parts := []string{}
	if prefix := strings.Trim(p.layout.Translations[lang], "/"); prefix != "" {
		parts = append(parts, prefix)
	}
	if dir := strings.Trim(p.layout.OutputDir, "/"); dir != "" {
		parts = append(parts, dir)
	}
	if p.layout.PrettyURLs {
		parts = append(parts, p.slug, "index"+ext)
	} else {
		parts = append(parts, p.slug+ext)
	}
	return path.Join(parts...)
}

// Permalink implements Post.
func (p *MarkdownPost) Permalink(lang string, absolute bool, ext string) string {
	link := p.DestinationPath(lang, ext)
	if ext == "" && p.layout.PrettyURLs {
		link = strings.TrimSuffix(link, "index"+pageExt)
	}
	if absolute {
		return strings.TrimSuffix(p.layout.BaseURL, "/") + "/" + link
	}
	return "/" + link
}
