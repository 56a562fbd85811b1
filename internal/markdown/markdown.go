// Package markdown renders post bodies to the HTML fragments carried in notes.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls Markdown rendering.
type Options struct {
	// Unsafe passes raw HTML in post sources through to the output.
	Unsafe bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
}

// Renderer converts Markdown bodies (front matter already removed) into HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer with GFM tables, strikethrough, autolinks and footnotes.
func NewRenderer(opts Options) *Renderer {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Footnote, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	htmlOpts := []renderer.Option{html.WithXHTML()}
	if opts.Unsafe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))
	return &Renderer{md: goldmark.New(rendererOpts...)}
}

// Render converts body to an HTML fragment with surrounding whitespace trimmed.
func (r *Renderer) Render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}
