package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Paragraph(t *testing.T) {
	r := NewRenderer(Options{})
	out, err := r.Render([]byte("Hello *world*\n"))
	require.NoError(t, err)
	require.Equal(t, "<p>Hello <em>world</em></p>", out)
}

func TestRender_GFMTable(t *testing.T) {
	r := NewRenderer(Options{})
	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, "<td>1</td>")
}

func TestRender_RawHTMLOmittedUnlessUnsafe(t *testing.T) {
	src := []byte("<span class=\"x\">hi</span>\n")

	safe, err := NewRenderer(Options{}).Render(src)
	require.NoError(t, err)
	require.NotContains(t, safe, "<span")

	unsafe, err := NewRenderer(Options{Unsafe: true}).Render(src)
	require.NoError(t, err)
	require.Contains(t, unsafe, "<span class=\"x\">hi</span>")
}

func TestRender_Links(t *testing.T) {
	out, err := NewRenderer(Options{}).Render([]byte("[home](../index.html)\n"))
	require.NoError(t, err)
	require.Equal(t, `<p><a href="../index.html">home</a></p>`, out)
}

func TestRender_HTMLOptions(t *testing.T) {
	out, err := NewRenderer(Options{HardWraps: true}).Render([]byte("one\ntwo\n"))
	require.NoError(t, err)
	require.Equal(t, "<p>one<br />\ntwo</p>", out, "hard wraps rendered as XHTML")
}
