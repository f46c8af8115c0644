package component

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/olxtools/olx2lia/internal/olx"
)

// ProblemType is the structurally-detected subtype of a problem
// component, derived only from which response element is present.
type ProblemType string

const (
	MultipleChoice ProblemType = "multiple_choice"
	Choice         ProblemType = "choice"
	Selection      ProblemType = "selection"
	TextInput      ProblemType = "text_input"
	NumberInput    ProblemType = "number_input"
	Formula        ProblemType = "formula"
	Code           ProblemType = "code"
	UnknownProblem ProblemType = "unknown"
)

// Problem is a quiz component. Root keeps the parsed XML so the renderer
// can walk the response structure.
type Problem struct {
	Name string
	Type ProblemType
	Root *olx.Node
}

func ParseProblem(fsys fs.FS, id string) (IR, error) {
	root, err := olx.LoadNode(fsys, path.Join("problem", id+".xml"))
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}
	if root.Tag != "problem" {
		return nil, fmt.Errorf("problem/%s.xml: unexpected root element <%s>", id, root.Tag)
	}
	name := root.Attr("display_name")
	if name == "" {
		name = id
	}
	return &Problem{Name: name, Type: DetectProblemType(root), Root: root}, nil
}

// DetectProblemType inspects which response element a parsed problem
// contains. First match wins. A choiceresponse is multi-select
// (checkbox) or single-select (radio) depending on its input group.
func DetectProblemType(root *olx.Node) ProblemType {
	if root.FindDescendant("multiplechoiceresponse") != nil {
		return MultipleChoice
	}
	if cr := root.FindDescendant("choiceresponse"); cr != nil {
		if cr.FindDescendant("checkboxgroup") != nil {
			return MultipleChoice
		}
		if cr.FindDescendant("choicegroup") != nil {
			return Choice
		}
	}
	if root.FindDescendant("optionresponse") != nil {
		return Selection
	}
	if root.FindDescendant("stringresponse") != nil {
		return TextInput
	}
	if root.FindDescendant("numericalresponse") != nil {
		return NumberInput
	}
	if root.FindDescendant("formularesponse") != nil {
		return Formula
	}
	if root.FindDescendant("coderesponse") != nil {
		return Code
	}
	return UnknownProblem
}

func (p *Problem) DisplayName() string { return p.Name }

// Render emits the question prompt, the type-specific answer body and any
// hints. Unsupported types degrade to a visible marker, never an error.
func (p *Problem) Render() string {
	var blocks []string
	blocks = append(blocks, p.prompt()...)

	body := p.body()
	if hints := extractHints(p.responseNode()); len(hints) > 0 {
		body = append(body, hints...)
	}
	if len(body) > 0 {
		blocks = append(blocks, strings.Join(body, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// prompt collects the question text: a p element and/or a label element,
// in that order, each as its own paragraph.
func (p *Problem) prompt() []string {
	var blocks []string
	if el := p.Root.FindDescendant("p"); el != nil {
		if t := el.TextContent(); t != "" {
			blocks = append(blocks, t)
		}
	}
	if el := p.Root.FindDescendant("label"); el != nil {
		if t := el.TextContent(); t != "" {
			blocks = append(blocks, t)
		}
	}
	return blocks
}

func (p *Problem) body() []string {
	switch p.Type {
	case MultipleChoice:
		var lines []string
		if mcr := p.Root.FindDescendant("multiplechoiceresponse"); mcr != nil {
			if g := mcr.FindDescendant("choicegroup"); g != nil {
				lines = append(lines, choiceLines(g, "[[X]]", "[[ ]]")...)
			}
		}
		if cr := p.Root.FindDescendant("choiceresponse"); cr != nil {
			if g := cr.FindDescendant("checkboxgroup"); g != nil {
				lines = append(lines, choiceLines(g, "[[X]]", "[[ ]]")...)
			}
		}
		return lines
	case Choice:
		if cr := p.Root.FindDescendant("choiceresponse"); cr != nil {
			if g := cr.FindDescendant("choicegroup"); g != nil {
				return choiceLines(g, "[(X)]", "[( )]")
			}
		}
		return nil
	case Selection:
		return []string{selectionLine(p.Root.FindDescendant("optionresponse"))}
	case TextInput:
		return []string{textInputLine(p.Root.FindDescendant("stringresponse"))}
	case NumberInput:
		return []string{"    [[Enter a number]]"}
	default:
		return []string{fmt.Sprintf("**Problem type %q is not supported.**", string(p.Type))}
	}
}

// responseNode is the element hints hang off: the detected response
// element, or the problem root for unsupported types.
func (p *Problem) responseNode() *olx.Node {
	var tags []string
	switch p.Type {
	case MultipleChoice:
		tags = []string{"multiplechoiceresponse", "choiceresponse"}
	case Choice:
		tags = []string{"choiceresponse"}
	case Selection:
		tags = []string{"optionresponse"}
	case TextInput:
		tags = []string{"stringresponse"}
	case NumberInput:
		tags = []string{"numericalresponse"}
	}
	for _, tag := range tags {
		if n := p.Root.FindDescendant(tag); n != nil {
			return n
		}
	}
	return p.Root
}

func choiceLines(group *olx.Node, on, off string) []string {
	var lines []string
	for _, c := range group.ChildrenNamed("choice") {
		mark := off
		if isCorrect(c) {
			mark = on
		}
		lines = append(lines, "- "+mark+" "+c.TextContent())
	}
	return lines
}

func selectionLine(or *olx.Node) string {
	if or == nil {
		return "[[ ]]"
	}
	var parts []string
	for _, opt := range or.Descendants("option") {
		text := opt.TextContent()
		if isCorrect(opt) {
			parts = append(parts, "( "+text+" )")
		} else {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "[[ ]]"
	}
	return "[[ " + strings.Join(parts, " | ") + " ]]"
}

func textInputLine(sr *olx.Node) string {
	if sr == nil {
		return "    [[ ]]"
	}
	var answers []string
	if a := sr.Attr("answer"); a != "" {
		answers = append(answers, a)
	}
	for _, extra := range sr.Descendants("additional_answer") {
		if a := extra.Attr("answer"); a != "" {
			answers = append(answers, a)
		}
	}
	if len(answers) == 0 {
		return "    [[ ]]"
	}
	return "    [[" + strings.Join(answers, " | ") + "]]"
}

// extractHints collects hint, demotedhint and description children of the
// response element, in that tag order, one `- [[?]]` line each.
func extractHints(n *olx.Node) []string {
	var lines []string
	for _, tag := range []string{"hint", "demotedhint", "description"} {
		for _, h := range n.ChildrenNamed(tag) {
			if t := h.TextContent(); t != "" {
				lines = append(lines, "- [[?]] "+t)
			}
		}
	}
	return lines
}

func isCorrect(n *olx.Node) bool {
	return strings.EqualFold(n.Attr("correct"), "true")
}
