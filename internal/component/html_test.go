package component

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olxtools/olx2lia/internal/olx"
)

func TestParseHTML(t *testing.T) {
	fsys := fstest.MapFS{
		"html/intro.xml":  &fstest.MapFile{Data: []byte(`<html display_name="Welcome"/>`)},
		"html/intro.html": &fstest.MapFile{Data: []byte(`<p>Hello <b>world</b></p>`)},
	}
	ir, err := ParseHTML(fsys, "intro")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", ir.DisplayName())
	assert.Equal(t, "Hello **world**", ir.Render())
}

func TestParseHTMLMissingEitherFile(t *testing.T) {
	onlyMeta := fstest.MapFS{
		"html/a.xml": &fstest.MapFile{Data: []byte(`<html/>`)},
	}
	_, err := ParseHTML(onlyMeta, "a")
	require.Error(t, err)

	onlyBody := fstest.MapFS{
		"html/a.html": &fstest.MapFile{Data: []byte(`<p>hi</p>`)},
	}
	_, err = ParseHTML(onlyBody, "a")
	require.Error(t, err)
}

func TestHTMLRenderRewritesMediaPaths(t *testing.T) {
	h := &Html{Name: "n", RawHTML: `<p><img src="/static/img/logo 1.png" alt="logo"></p>`}
	assert.Contains(t, h.Render(), "![logo](./media/img_logo_1.png)")
}

func TestHTMLRenderEmptyBody(t *testing.T) {
	h := &Html{Name: "n", RawHTML: "  "}
	assert.Equal(t, "No content available", h.Render())
}

func TestParseAbout(t *testing.T) {
	fsys := fstest.MapFS{
		"about/overview.html": &fstest.MapFile{Data: []byte(`<p>Course overview.</p>`)},
		"about/effort.html":   &fstest.MapFile{Data: []byte(`<p>Effort.</p>`)},
		"about/notes.txt":     &fstest.MapFile{Data: []byte(`ignored`)},
	}
	ir, err := ParseAbout(fsys, "about")
	require.NoError(t, err)
	assert.Equal(t, "About This Course", ir.DisplayName())
	// fs.ReadDir sorts entries, so effort.html comes first.
	assert.Equal(t, "Effort.", ir.Render())
}

func TestParseAboutNoHTMLFile(t *testing.T) {
	_, err := ParseAbout(fstest.MapFS{"about/readme.txt": &fstest.MapFile{Data: []byte("x")}}, "about")
	require.Error(t, err)

	_, err = ParseAbout(fstest.MapFS{}, "about")
	require.Error(t, err)
}

func TestRegistryUnknownKindNeverErrors(t *testing.T) {
	reg := NewRegistry()
	ir, err := reg.Parse(fstest.MapFS{}, olx.ComponentRef{Kind: "poll", ID: "p-42"})
	require.NoError(t, err)

	out := ir.Render()
	assert.Contains(t, out, "poll")
	assert.Contains(t, out, "p-42")
}

func TestRegistryWrapsParseFailures(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Parse(fstest.MapFS{}, olx.ComponentRef{Kind: "problem", ID: "ghost"})
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "problem", cerr.Kind)
	assert.Equal(t, "ghost", cerr.ID)
}

func TestRegistryCustomKind(t *testing.T) {
	reg := NewRegistry()
	reg.Register("discussion", func(_ fs.FS, id string) (IR, error) {
		return &Html{Name: id, RawHTML: "<p>thread</p>"}, nil
	})

	ir, err := reg.Parse(fstest.MapFS{}, olx.ComponentRef{Kind: "Discussion", ID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, "thread", ir.Render())
}
