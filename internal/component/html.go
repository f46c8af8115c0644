package component

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/olxtools/olx2lia/internal/liascript"
	"github.com/olxtools/olx2lia/internal/media"
	"github.com/olxtools/olx2lia/internal/olx"
)

// Html is a free-form HTML text component. It needs both the metadata
// file html/<id>.xml and the body file html/<id>.html.
type Html struct {
	Name    string
	RawHTML string
}

func ParseHTML(fsys fs.FS, id string) (IR, error) {
	meta, err := olx.LoadNode(fsys, path.Join("html", id+".xml"))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	body, err := fs.ReadFile(fsys, path.Join("html", id+".html"))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	name := meta.Attr("display_name")
	if name == "" {
		name = id
	}
	return &Html{Name: name, RawHTML: string(body)}, nil
}

func (h *Html) DisplayName() string { return h.Name }

func (h *Html) Render() string {
	return renderHTMLBody(h.RawHTML)
}

// About is the course description page: the first .html file under
// about/. fs.ReadDir returns entries sorted by name, so "first" is
// deterministic on every platform.
type About struct {
	Name    string
	RawHTML string
}

func ParseAbout(fsys fs.FS, _ string) (IR, error) {
	entries, err := fs.ReadDir(fsys, "about")
	if err != nil {
		return nil, fmt.Errorf("read about directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		body, err := fs.ReadFile(fsys, path.Join("about", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		return &About{Name: "About This Course", RawHTML: string(body)}, nil
	}
	return nil, fmt.Errorf("about directory contains no .html file")
}

func (a *About) DisplayName() string { return a.Name }

func (a *About) Render() string {
	return renderHTMLBody(a.RawHTML)
}

// renderHTMLBody rewrites /static/ media references, converts the body to
// Markdown and never returns an empty string.
func renderHTMLBody(raw string) string {
	md := liascript.FromHTML(media.RewriteMediaPaths(raw))
	if md == "" {
		return "No content available"
	}
	return md
}
