package olx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// Node is a generic attributed XML element. Tag names are lower-cased at
// parse time so lookups never need case fallbacks; children keep document
// order.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// Attr returns the value of the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// HasAttr reports whether the named attribute is present, even if empty.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attrs[name]
	return ok
}

// ChildrenNamed returns the direct children with the given tag, in
// document order. The tag is matched case-insensitively.
func (n *Node) ChildrenNamed(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FindDescendant returns the first element with the given tag in a
// depth-first, document-order walk of n's subtree (excluding n itself),
// or nil if none exists.
func (n *Node) FindDescendant(tag string) *Node {
	tag = strings.ToLower(tag)
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if d := c.FindDescendant(tag); d != nil {
			return d
		}
	}
	return nil
}

// Descendants returns every element with the given tag in n's subtree
// (excluding n itself), in document order.
func (n *Node) Descendants(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Tag == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextContent concatenates the text of n and all its descendants, in
// document order, separated by single spaces.
func (n *Node) TextContent() string {
	var parts []string
	var collect func(*Node)
	collect = func(n *Node) {
		if n.Text != "" {
			parts = append(parts, n.Text)
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}

// ParseNode reads an XML document into a Node tree. Decoding is
// non-strict: course exports routinely carry HTML entities and stray
// markup that must not kill the whole parse.
func ParseNode(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:   strings.ToLower(tok.Name.Local),
				Attrs: make(map[string]string, len(tok.Attr)),
			}
			for _, a := range tok.Attr {
				node.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root == nil {
					root = node
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := strings.TrimSpace(string(tok))
			if text == "" || len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			if cur.Text != "" {
				cur.Text += " " + text
			} else {
				cur.Text = text
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}
	return root, nil
}

// LoadNode reads and parses the XML file at path within fsys.
func LoadNode(fsys fs.FS, path string) (*Node, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	node, err := ParseNode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return node, nil
}
