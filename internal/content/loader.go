package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/frontmatter"
	"git.home.luguber.info/inful/tinypub/internal/logfields"
	"git.home.luguber.info/inful/tinypub/internal/markdown"
)

// Loader reads the posts directory into a timeline.
type Loader struct {
	Directory     string
	Layout        Layout
	Renderer      *markdown.Renderer
	AbsoluteLinks bool
}

// postMeta is the front matter a post file may carry.
type postMeta struct {
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
	Date  string `yaml:"date"`
	Draft bool   `yaml:"draft"`
}

type sourceFile struct {
	path string
	base string // file name without language suffix and extension
	lang string
}

// Load discovers and renders every published post. The timeline is ordered
// newest first; posts sharing a timestamp are ordered by source path.
func (l *Loader) Load() ([]Post, error) {
	files, err := l.discover()
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]sourceFile)
	var order []string
	for _, f := range files {
		key := filepath.Join(filepath.Dir(f.path), f.base)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	posts := make([]*MarkdownPost, 0, len(order))
	for _, key := range order {
		post, err := l.loadPost(key, groups[key])
		if err != nil {
			return nil, err
		}
		if post != nil {
			posts = append(posts, post)
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		ti, tj := posts[i].date.Time, posts[j].date.Time
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return posts[i].SourcePath() < posts[j].SourcePath()
	})

	timeline := make([]Post, len(posts))
	for i, p := range posts {
		timeline[i] = p
	}
	slog.Info("Timeline loaded", logfields.Path(l.Directory), slog.Int("posts", len(timeline)))
	return timeline, nil
}

func (l *Loader) discover() ([]sourceFile, error) {
	if _, err := os.Stat(l.Directory); os.IsNotExist(err) {
		slog.Warn("Content directory not found", logfields.Path(l.Directory))
		return nil, nil
	}

	var files []sourceFile
	err := filepath.WalkDir(l.Directory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != l.Directory {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdownFile(d.Name()) {
			return nil
		}
		files = append(files, l.classify(path))
		return nil
	})
	if err != nil {
		return nil, ferrors.FileSystemError("failed to walk content directory").
			WithContext("path", l.Directory).
			WithCause(err).
			Build()
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files, nil
}

// classify splits "hello.fr.md" into base "hello" and language "fr" when fr is
// an active translation. Everything else belongs to the default language.
func (l *Loader) classify(path string) sourceFile {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if dot := strings.LastIndex(stem, "."); dot > 0 {
		lang := stem[dot+1:]
		if _, ok := l.Layout.Translations[lang]; ok && lang != l.Layout.DefaultLang {
			return sourceFile{path: path, base: stem[:dot], lang: lang}
		}
	}
	return sourceFile{path: path, base: stem, lang: l.Layout.DefaultLang}
}

func (l *Loader) loadPost(key string, files []sourceFile) (*MarkdownPost, error) {
	var primary *sourceFile
	for i := range files {
		if files[i].lang == l.Layout.DefaultLang {
			primary = &files[i]
		}
	}
	if primary == nil {
		slog.Warn("Skipping translation without default language source", logfields.Post(key))
		return nil, nil
	}

	meta, body, err := readPostFile(primary.path)
	if err != nil {
		return nil, err
	}
	if meta.Draft {
		slog.Debug("Skipping draft", logfields.Post(primary.path))
		return nil, nil
	}
	if strings.TrimSpace(meta.Title) == "" {
		return nil, ferrors.ContentError("post has no title").WithContext("path", primary.path).Build()
	}
	if strings.TrimSpace(meta.Date) == "" {
		return nil, ferrors.ContentError("post has no date").WithContext("path", primary.path).Build()
	}
	date, err := ParseDate(meta.Date)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryContent, "invalid post date").
			WithContext("path", primary.path).
			WithContext("date", meta.Date).
			Build()
	}

	slug := meta.Slug
	if slug == "" {
		slug = Slugify(primary.base)
	}
	if slug == "" {
		slug = Slugify(meta.Title)
	}
	if slug == "" {
		return nil, ferrors.ContentError("post has no usable slug").
			WithContext("path", primary.path).
			WithContext("title", meta.Title).
			Build()
	}

	post := &MarkdownPost{
		slug:        slug,
		date:        date,
		defaultLang: l.Layout.DefaultLang,
		variants:    make(map[string]variant, len(files)),
		layout:      &l.Layout,
	}

	for _, f := range files {
		m, b := meta, body
		if f.path != primary.path {
			m, b, err = readPostFile(f.path)
			if err != nil {
				return nil, err
			}
			if m.Title == "" {
				m.Title = meta.Title
			}
		}
		html, err := l.render(b, f.path)
		if err != nil {
			return nil, err
		}
		post.variants[f.lang] = variant{title: m.Title, html: html, source: f.path}
	}

	if l.AbsoluteLinks {
		for lang, v := range post.variants {
			abs, err := AbsolutizeLinks(v.html, post.Permalink(lang, true, ""))
			if err != nil {
				return nil, err
			}
			v.html = abs
			post.variants[lang] = v
		}
	}
	return post, nil
}

func (l *Loader) render(body []byte, source string) (string, error) {
	if l.Renderer == nil {
		return string(body), nil
	}
	out, err := l.Renderer.Render(body)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryContent, "failed to render markdown").
			WithContext("path", source).
			Build()
	}
	return out, nil
}

func readPostFile(path string) (postMeta, []byte, error) {
	// #nosec G304 - path comes from walking the content directory
	data, err := os.ReadFile(path)
	if err != nil {
		return postMeta{}, nil, ferrors.FileSystemError("failed to read post").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	fm, body, had, err := frontmatter.Split(data)
	if err != nil {
		return postMeta{}, nil, ferrors.WrapError(err, ferrors.CategoryContent, "malformed front matter").
			WithContext("path", path).
			Build()
	}
	var meta postMeta
	if had {
		if err := frontmatter.Decode(fm, &meta); err != nil {
			return postMeta{}, nil, ferrors.WrapError(err, ferrors.CategoryContent, fmt.Sprintf("invalid front matter in %s", filepath.Base(path))).
				WithContext("path", path).
				Build()
		}
	}
	return meta, body, nil
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}
