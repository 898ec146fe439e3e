package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpipe/core"
	"github.com/gaurav-prasanna/docpipe/core/meta"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Sample Page</title><script>evil()</script></head>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>Welcome</h1>
<p>This is <strong>important</strong> content.</p>
<pre><code>runnable()</code></pre>
<table><tr><td>a</td></tr></table>
</main>
<footer>copyright</footer>
</body>
</html>`

func TestHTMLImport(t *testing.T) {
	res, err := NewHTMLImporter().Import(context.Background(), []byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Sample Page", res.Title)
	assert.Contains(t, res.Markdown, "# Welcome")
	assert.Contains(t, res.Markdown, "**important**")
	assert.NotContains(t, res.Markdown, "evil()")
	assert.NotContains(t, res.Markdown, "Home")
	assert.NotContains(t, res.Markdown, "copyright")

	f, ok := res.Formatting.(*meta.Formatting)
	require.True(t, ok)
	assert.Equal(t, "html", f.SourceFormat)
	assert.True(t, f.HasTables)
	assert.True(t, f.HasCodeBlocks)
	assert.False(t, f.HasImages)
}

func TestHTMLImportTitleFallsBackToH1(t *testing.T) {
	page := `<html><body><h1>Only Heading</h1><p>text</p></body></html>`
	res, err := NewHTMLImporter().Import(context.Background(), []byte(page))
	require.NoError(t, err)
	assert.Equal(t, "Only Heading", res.Title)
}

func TestHTMLImportPlainFragment(t *testing.T) {
	res, err := NewHTMLImporter().Import(context.Background(), []byte("<p>just a paragraph</p>"))
	require.NoError(t, err)
	assert.Contains(t, res.Markdown, "just a paragraph")
}

var _ core.Importer = (*HTMLImporter)(nil)
var _ core.Importer = (*DocxImporter)(nil)
