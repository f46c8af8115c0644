// Package liascript converts HTML component bodies into the LiaScript
// Markdown dialect.
package liascript

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// FromHTML converts an HTML fragment to Markdown. Bold, italic, headings,
// lists, links, images, code and blockquotes map to their direct
// equivalents; unknown elements contribute their text content. The result
// may be empty; the caller decides how to present that.
func FromHTML(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}
	body := findBody(doc)
	if body == nil {
		body = doc
	}

	var blocks []string
	renderBlocks(body, &blocks)
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

// renderBlocks walks element children, emitting one Markdown block per
// block-level element. Loose inline content between block elements is
// gathered into paragraphs of its own.
func renderBlocks(n *html.Node, blocks *[]string) {
	var para strings.Builder
	flush := func() {
		if t := strings.TrimSpace(para.String()); t != "" {
			*blocks = append(*blocks, t)
		}
		para.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			para.WriteString(collapseSpace(c.Data))
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}

		if level := headingLevel(c.Data); level > 0 {
			flush()
			*blocks = append(*blocks, strings.Repeat("#", level)+" "+inlineText(c))
			continue
		}

		switch c.Data {
		case "script", "style", "head", "nav":
			continue
		case "p":
			flush()
			if t := inlineText(c); t != "" {
				*blocks = append(*blocks, t)
			}
		case "ul", "ol":
			flush()
			if list := renderList(c, 0); list != "" {
				*blocks = append(*blocks, list)
			}
		case "pre":
			flush()
			*blocks = append(*blocks, "```\n"+strings.TrimRight(rawText(c), "\n")+"\n```")
		case "blockquote":
			flush()
			if t := inlineText(c); t != "" {
				*blocks = append(*blocks, "> "+t)
			}
		case "hr":
			flush()
			*blocks = append(*blocks, "---")
		case "br":
			para.WriteString("\n")
		case "div", "section", "article", "main", "body", "html", "table", "tbody", "tr", "td", "th", "center":
			flush()
			renderBlocks(c, blocks)
		default:
			// Inline element at block position: fold into the running
			// paragraph.
			para.WriteString(inlineText(c))
		}
	}
	flush()
}

// inlineText renders the inline content of an element as Markdown.
func inlineText(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(inlineOne(c))
	}
	return strings.TrimSpace(buf.String())
}

// inlineOne renders a single text or inline element node.
func inlineOne(c *html.Node) string {
	switch c.Type {
	case html.TextNode:
		return collapseSpace(c.Data)
	case html.ElementNode:
		switch c.Data {
		case "strong", "b":
			if t := inlineText(c); t != "" {
				return "**" + t + "**"
			}
			return ""
		case "em", "i":
			if t := inlineText(c); t != "" {
				return "*" + t + "*"
			}
			return ""
		case "code", "tt":
			return "`" + rawText(c) + "`"
		case "a":
			text := inlineText(c)
			if href := attrVal(c, "href"); href != "" {
				return fmt.Sprintf("[%s](%s)", text, href)
			}
			return text
		case "img":
			return fmt.Sprintf("![%s](%s)", attrVal(c, "alt"), attrVal(c, "src"))
		case "br":
			return "\n"
		case "script", "style":
			return ""
		default:
			return inlineText(c)
		}
	}
	return ""
}

func renderList(n *html.Node, depth int) string {
	ordered := n.Data == "ol"
	indent := strings.Repeat("  ", depth)
	var lines []string
	item := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		item++
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", item)
		}
		lines = append(lines, indent+marker+inlineTextShallow(c))
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			if g.Type == html.ElementNode && (g.Data == "ul" || g.Data == "ol") {
				if sub := renderList(g, depth+1); sub != "" {
					lines = append(lines, sub)
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}

// inlineTextShallow renders an li's own inline content, leaving nested
// lists to the caller.
func inlineTextShallow(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			continue
		}
		buf.WriteString(inlineOne(c))
	}
	return strings.TrimSpace(buf.String())
}

func collapseSpace(s string) string {
	return whitespaceRuns.ReplaceAllString(s, " ")
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
