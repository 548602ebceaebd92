package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_CodeBlocksAndTables(t *testing.T) {
	md := NewMarkdown()

	out, err := md.Render("Use `append`:\n\n```go\ns = append(s, x)\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<code>append</code>")
	assert.Contains(t, out, `<code class="language-go">`)
	assert.Contains(t, out, "<table>")
}

func TestRender_EscapesRawHTML(t *testing.T) {
	md := NewMarkdown()

	out, err := md.Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestRender_Empty(t *testing.T) {
	out, err := NewMarkdown().Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
