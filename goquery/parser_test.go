package goquery_test

import (
	"testing"

	"github.com/fwojciec/pagegrade"
	"github.com/fwojciec/pagegrade/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Parser implements pagegrade.MarkupParser at compile time.
var _ pagegrade.MarkupParser = (*goquery.Parser)(nil)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("collects stylesheet links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<link rel="stylesheet" href="/a.css">
<link rel="icon" href="/favicon.ico">
<link rel="alternate stylesheet" href="/b.css">
<link rel="preload" as="style" href="/c.css">
<link rel="preload" as="font" href="/font.woff2">
<link rel="stylesheet" href="  ">
</head></html>`

		m, err := goquery.NewParser().Parse(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/a.css", "/b.css", "/c.css"}, m.Stylesheets)
	})

	t.Run("collects external scripts of JavaScript type", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script src="/app.js"></script>
<script type="module" src="/entry.mjs"></script>
<script type="text/template" src="/tmpl.html"></script>
<link rel="modulepreload" href="/chunk.js">
</head></html>`

		m, err := goquery.NewParser().Parse(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"/chunk.js", "/app.js", "/entry.mjs"}, m.Scripts)
	})

	t.Run("collects inline scripts and skips data blocks", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<script>var a = 1;</script>
<script type="application/ld+json">{"@type":"Thing"}</script>
<script type="text/javascript; charset=utf-8">var b = 2;</script>
<script>   </script>
</body></html>`

		m, err := goquery.NewParser().Parse(html)

		require.NoError(t, err)
		assert.Equal(t, []string{"var a = 1;", "var b = 2;"}, m.InlineScripts)
		assert.Empty(t, m.Scripts)
	})

	t.Run("collects inline styles", func(t *testing.T) {
		t.Parallel()

		m, err := goquery.NewParser().Parse(`<style>p { margin: 0 }</style><style></style>`)

		require.NoError(t, err)
		assert.Equal(t, []string{"p { margin: 0 }"}, m.InlineStyles)
	})

	t.Run("collects style attributes with element identity", func(t *testing.T) {
		t.Parallel()

		html := `<div id="hero" class="wide  dark" style="color: red;"></div><p style="">x</p><span style="margin:0">y</span>`

		m, err := goquery.NewParser().Parse(html)

		require.NoError(t, err)
		assert.Equal(t, []pagegrade.StyleAttr{
			{Tag: "div", ID: "hero", Classes: []string{"wide", "dark"}, Declarations: "color: red;"},
			{Tag: "span", Classes: nil, Declarations: "margin:0"},
		}, m.StyleAttrs)
	})

	t.Run("reads the base element", func(t *testing.T) {
		t.Parallel()

		m, err := goquery.NewParser().Parse(`<head><base href=" https://cdn.example.com/ "><base href="/ignored/"></head>`)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/", m.Base)
	})

	t.Run("empty document yields empty markup", func(t *testing.T) {
		t.Parallel()

		m, err := goquery.NewParser().Parse("")

		require.NoError(t, err)
		assert.Empty(t, m.Stylesheets)
		assert.Empty(t, m.Scripts)
		assert.Empty(t, m.StyleAttrs)
	})
}
