// Package richtext converts article text between the editor's HTML and the
// stored Markdown dialect, and renders the dialect for readers.
//
// The dialect knows headings (# to ###), bold (**x**), italic (*x*),
// links ([text](url)), list items (- x) and underline, which is kept as a
// literal <u>x</u> tag.
package richtext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxDepth is the element nesting depth ToMarkdown converts. Markup nested
// deeper is reduced to its text.
const MaxDepth = 10

var reBlankRun = regexp.MustCompile(`\n{3,}`)

// ToMarkdown converts an editor HTML fragment to the Markdown dialect.
// Unknown tags are dropped and keep their content; script and style
// elements are dropped entirely.
func ToMarkdown(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(convert(n, 0))
	}
	return normalize(sb.String())
}

// Equivalent reports whether two HTML fragments store as the same Markdown.
func Equivalent(a, b string) bool {
	return ToMarkdown(a) == ToMarkdown(b)
}

func convert(n *html.Node, depth int) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
	default:
		return ""
	}
	if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
		return ""
	}
	if depth >= MaxDepth {
		return textContent(n)
	}
	switch n.DataAtom {
	case atom.H1:
		return heading("# ", n, depth)
	case atom.H2:
		return heading("## ", n, depth)
	case atom.H3:
		return heading("### ", n, depth)
	case atom.Strong, atom.B:
		return wrap("**", children(n, depth), "**")
	case atom.Em, atom.I:
		return wrap("*", children(n, depth), "*")
	case atom.U:
		return wrap("<u>", children(n, depth), "</u>")
	case atom.A:
		inner := children(n, depth)
		href := strings.TrimSpace(attr(n, "href"))
		if inner == "" || !allowedURL(href) {
			return inner
		}
		return "[" + inner + "](" + href + ")"
	case atom.Ul, atom.Ol:
		return list(n, depth)
	case atom.Li:
		return listItem(n, depth)
	case atom.P, atom.Div:
		inner := children(n, depth)
		if strings.TrimSpace(inner) == "" {
			return "\n"
		}
		return "\n\n" + inner + "\n\n"
	case atom.Br:
		return "\n"
	}
	return children(n, depth)
}

func children(n *html.Node, depth int) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(convert(c, depth+1))
	}
	return sb.String()
}

func heading(prefix string, n *html.Node, depth int) string {
	inner := oneLine(children(n, depth))
	if inner == "" {
		return ""
	}
	return "\n\n" + prefix + inner + "\n\n"
}

func wrap(open, inner, close string) string {
	if inner == "" {
		return ""
	}
	return open + inner + close
}

func list(n *html.Node, depth int) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		sb.WriteString(convert(c, depth+1))
	}
	if sb.Len() == 0 {
		return ""
	}
	return "\n\n" + sb.String() + "\n"
}

func listItem(n *html.Node, depth int) string {
	inner := oneLine(children(n, depth))
	if inner == "" {
		return ""
	}
	return "- " + inner + "\n"
}

// oneLine folds s onto a single trimmed line.
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type != html.ElementNode || n.DataAtom == atom.Script || n.DataAtom == atom.Style {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = reBlankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}
