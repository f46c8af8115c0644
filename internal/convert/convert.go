// Package convert assembles a parsed course tree into one LiaScript
// Markdown document.
package convert

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/olxtools/olx2lia/internal/component"
	"github.com/olxtools/olx2lia/internal/olx"
)

// Converter runs the pipeline for a single extracted course directory.
// It holds no state across courses; a fresh Converter per course keeps
// failures isolated.
type Converter struct {
	fsys fs.FS
	reg  *component.Registry
	log  *slog.Logger
}

// New creates a converter over an extracted course filesystem. A nil
// registry installs the built-in component kinds.
func New(fsys fs.FS, reg *component.Registry, log *slog.Logger) *Converter {
	if reg == nil {
		reg = component.NewRegistry()
	}
	return &Converter{fsys: fsys, reg: reg, log: log}
}

// Run builds the course tree and renders the full document. Only a
// missing or malformed top-level course file fails; everything below
// degrades in place.
func (c *Converter) Run() (*olx.CourseTree, string, error) {
	tree, err := olx.NewTreeBuilder(c.fsys, c.log).Build()
	if err != nil {
		return nil, "", err
	}
	return tree, c.TransformCourseToMarkdown(tree), nil
}

// TransformCourseToMarkdown walks the tree in document order. Course,
// chapter and sequential titles map to heading levels 1-3; verticals are
// transparent and only contribute their component order. Components are
// parsed and rendered leaf by leaf during this single traversal.
func (c *Converter) TransformCourseToMarkdown(tree *olx.CourseTree) string {
	var blocks []string
	blocks = append(blocks, "# "+tree.Title)

	for _, ch := range tree.Chapters {
		blocks = append(blocks, "## "+ch.Title)
		for _, seq := range ch.Sequentials {
			blocks = append(blocks, "### "+seq.Title)
			for _, vert := range seq.Verticals {
				for _, ref := range vert.Components {
					blocks = append(blocks, c.renderComponent(ref))
				}
			}
		}
	}

	blocks = append(blocks, "---")
	return strings.Join(blocks, "\n\n") + "\n"
}

// renderComponent absorbs leaf failures: a component whose backing file
// is missing or malformed becomes a visible placeholder block instead of
// taking its siblings down.
func (c *Converter) renderComponent(ref olx.ComponentRef) string {
	ir, err := c.reg.Parse(c.fsys, ref)
	if err != nil {
		c.log.Warn("component unavailable", "kind", ref.Kind, "id", ref.ID, "error", err)
		return fmt.Sprintf("content temporarily unavailable: %v", err)
	}
	return ir.Render()
}
