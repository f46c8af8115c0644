package preview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	page, err := Render([]byte("# Demo Course\n\nSome **bold** text.\n"), "Demo Course")
	require.NoError(t, err)

	html := string(page)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<title>Demo Course</title>")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderEscapesTitle(t *testing.T) {
	page, err := Render([]byte("body"), `<script>"x"</script>`)
	require.NoError(t, err)
	assert.NotContains(t, string(page), "<title><script>")
}
