// Package component classifies leaf learning components, parses them into
// a typed intermediate representation and renders that IR to LiaScript
// Markdown. Kinds are dispatched through a registry: a new content type is
// added by registering a parser, never by editing a switch.
package component

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/olxtools/olx2lia/internal/olx"
)

// IR is the parsed form of one component, independent of its source XML
// shape and ready for rendering.
type IR interface {
	DisplayName() string
	Render() string
}

// ParseFunc loads a component's backing file(s) from the course
// filesystem and builds its IR. The returned IR carries its own Render.
type ParseFunc func(fsys fs.FS, id string) (IR, error)

// Error wraps a parse failure of a recognized component kind. The
// assembler absorbs it at the leaf; siblings are unaffected.
type Error struct {
	Kind string
	ID   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s component %q: %v", e.Kind, e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Registry maps component kinds to their parsers.
type Registry struct {
	parsers map[string]ParseFunc
}

// NewRegistry returns a registry with the built-in kinds installed:
// html, problem, video, about.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]ParseFunc)}
	r.Register("html", ParseHTML)
	r.Register("problem", ParseProblem)
	r.Register("video", ParseVideo)
	r.Register("about", ParseAbout)
	return r
}

// Register installs a parser for a kind. Kinds match case-insensitively.
func (r *Registry) Register(kind string, parse ParseFunc) {
	r.parsers[strings.ToLower(kind)] = parse
}

// Parse builds the IR for a component reference. An unregistered kind is
// not an error: it yields the Unknown placeholder IR. A registered kind
// whose backing file is missing or malformed returns a *Error.
func (r *Registry) Parse(fsys fs.FS, ref olx.ComponentRef) (IR, error) {
	parse, ok := r.parsers[strings.ToLower(ref.Kind)]
	if !ok {
		return &Unknown{Kind: ref.Kind, ID: ref.ID}, nil
	}
	ir, err := parse(fsys, ref.ID)
	if err != nil {
		return nil, &Error{Kind: ref.Kind, ID: ref.ID, Err: err}
	}
	return ir, nil
}

// Unknown stands in for a component kind nobody registered.
type Unknown struct {
	Kind string
	ID   string
}

func (u *Unknown) DisplayName() string { return u.ID }

func (u *Unknown) Render() string {
	return fmt.Sprintf("**Component kind %q (id %q) is not supported.**", u.Kind, u.ID)
}
