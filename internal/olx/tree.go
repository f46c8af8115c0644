package olx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
)

// ErrMissingCourseXML marks a course directory without a readable
// course.xml. Fatal for that course; the batch layer decides what to do.
var ErrMissingCourseXML = errors.New("course.xml is missing or unreadable")

// CourseTree is the ordered course → chapter → sequential → vertical →
// component hierarchy. Built once per conversion run and never mutated
// afterwards.
type CourseTree struct {
	ID       string
	Title    string
	Chapters []*Chapter
}

type Chapter struct {
	ID          string
	Title       string
	Sequentials []*Sequential
}

type Sequential struct {
	ID        string
	Title     string
	Verticals []*Vertical
}

// Vertical is a transparent container: it holds component order but
// contributes no heading of its own in the rendered output.
type Vertical struct {
	ID         string
	Title      string
	Components []ComponentRef
}

// ComponentRef points at a leaf component's backing file(s) by kind and
// filename stem.
type ComponentRef struct {
	Kind string
	ID   string
}

// componentKinds is the fixed scan order for collecting component
// references out of a vertical. Components group by kind in this order,
// which may differ from authoring order when kinds interleave.
var componentKinds = []string{"html", "problem", "video", "about"}

// TreeBuilder walks the OLX reference graph of one extracted course.
type TreeBuilder struct {
	fsys fs.FS
	log  *slog.Logger
}

func NewTreeBuilder(fsys fs.FS, log *slog.Logger) *TreeBuilder {
	return &TreeBuilder{fsys: fsys, log: log}
}

// Build reads course.xml and descends the reference chain. Missing
// chapter/sequential/vertical files degrade to placeholder nodes; only a
// missing or malformed top-level course file is fatal.
func (b *TreeBuilder) Build() (*CourseTree, error) {
	root, err := LoadNode(b.fsys, "course.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCourseXML, err)
	}
	if root.Tag != "course" {
		return nil, fmt.Errorf("course.xml: unexpected root element <%s>", root.Tag)
	}

	urlName := root.Attr("url_name")
	tree := &CourseTree{
		ID:    urlName,
		Title: firstNonEmpty(root.Attr("display_name"), urlName, "Course"),
	}

	// The run file under course/ carries the display name and chapter
	// order; the root file is just a pointer to it. Prefer the run file
	// when it resolves.
	chapterSrc := root
	if urlName != "" {
		if detail, err := LoadNode(b.fsys, path.Join("course", urlName+".xml")); err == nil {
			chapterSrc = detail
			if name := detail.Attr("display_name"); name != "" {
				tree.Title = name
			}
		}
	}

	for _, ref := range childRefs(chapterSrc, "chapter") {
		tree.Chapters = append(tree.Chapters, b.buildChapter(ref))
	}
	return tree, nil
}

func (b *TreeBuilder) buildChapter(ref string) *Chapter {
	node, ok := b.loadStructural("chapter", ref)
	if !ok {
		return &Chapter{ID: ref, Title: "Missing chapter " + ref}
	}
	ch := &Chapter{ID: ref, Title: firstNonEmpty(node.Attr("display_name"), ref)}
	for _, seqRef := range childRefs(node, "sequential") {
		ch.Sequentials = append(ch.Sequentials, b.buildSequential(seqRef))
	}
	return ch
}

func (b *TreeBuilder) buildSequential(ref string) *Sequential {
	node, ok := b.loadStructural("sequential", ref)
	if !ok {
		return &Sequential{ID: ref, Title: "Missing sequential " + ref}
	}
	seq := &Sequential{ID: ref, Title: firstNonEmpty(node.Attr("display_name"), ref)}
	for _, vertRef := range childRefs(node, "vertical") {
		seq.Verticals = append(seq.Verticals, b.buildVertical(vertRef))
	}
	return seq
}

func (b *TreeBuilder) buildVertical(ref string) *Vertical {
	node, ok := b.loadStructural("vertical", ref)
	if !ok {
		return &Vertical{ID: ref, Title: "Missing vertical " + ref}
	}
	return &Vertical{
		ID:         ref,
		Title:      firstNonEmpty(node.Attr("display_name"), ref),
		Components: CollectComponents(node),
	}
}

// loadStructural reads <level>/<ref>.xml. A missing or unparseable file
// is tolerated; the caller substitutes a placeholder node and siblings
// continue.
func (b *TreeBuilder) loadStructural(level, ref string) (*Node, bool) {
	node, err := LoadNode(b.fsys, path.Join(level, ref+".xml"))
	if err != nil {
		b.log.Warn("structural file unavailable, substituting placeholder",
			"level", level, "ref", ref, "error", err)
		return nil, false
	}
	return node, true
}

// CollectComponents returns the ordered component references of a parsed
// vertical node. The scan is kind-by-kind in the fixed order; the id is
// taken from url_name, then url, then filename, then "unknown".
func CollectComponents(vertical *Node) []ComponentRef {
	var refs []ComponentRef
	for _, kind := range componentKinds {
		for _, child := range vertical.ChildrenNamed(kind) {
			id := firstNonEmpty(child.Attr("url_name"), child.Attr("url"), child.Attr("filename"), "unknown")
			refs = append(refs, ComponentRef{Kind: kind, ID: id})
		}
	}
	return refs
}

func childRefs(node *Node, tag string) []string {
	var refs []string
	for _, c := range node.ChildrenNamed(tag) {
		if ref := c.Attr("url_name"); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
