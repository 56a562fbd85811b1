package content

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

var linkAttributes = map[string]string{
	"a":      "href",
	"img":    "src",
	"audio":  "src",
	"video":  "src",
	"source": "src",
}

// AbsolutizeLinks resolves relative href/src attributes in an HTML fragment
// against pageURL. Federated servers display note content outside the site,
// where relative links would break.
func AbsolutizeLinks(fragment, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryValidation, "invalid page URL").
			WithContext("url", pageURL).
			Build()
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryContent, "failed to parse HTML").Build()
	}

	var rewrite func(*html.Node)
	rewrite = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttributes[n.Data]; ok {
				resolveAttr(n, attr, base)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rewrite(c)
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		rewrite(n)
		if err := html.Render(&buf, n); err != nil {
			return "", ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render HTML").Build()
		}
	}
	return buf.String(), nil
}

func resolveAttr(n *html.Node, key string, base *url.URL) {
	for i, a := range n.Attr {
		if a.Key != key || a.Val == "" || strings.HasPrefix(a.Val, "#") {
			continue
		}
		ref, err := url.Parse(a.Val)
		if err != nil || ref.IsAbs() {
			continue
		}
		n.Attr[i].Val = base.ResolveReference(ref).String()
	}
}
