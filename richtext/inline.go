package richtext

import (
	"regexp"
	"sort"
	"strings"
)

// Style is a set of inline text styles.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
)

// Has reports whether s includes all of o.
func (s Style) Has(o Style) bool { return s&o == o }

// Fragment is a run of text sharing one style. URL is set for link text.
type Fragment struct {
	Text  string
	Style Style
	URL   string
}

var (
	reSpanUnderline = regexp.MustCompile(`<u>(.*?)</u>`)
	reSpanBold      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reSpanLink      = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

type spanKind int

const (
	spanUnderline spanKind = iota
	spanBold
	spanLink
	spanItalic
)

type span struct {
	start, end int
	kind       spanKind
	inner      string
	url        string
}

// Inline splits one line of the dialect into styled fragments. Candidate
// spans are collected for every construct, ordered by start offset, and a
// span that starts inside an accepted one is dropped. Underline and bold
// content is scanned again, down to MaxDepth levels.
func Inline(text string) []Fragment {
	return inline(nil, text, 0, 0)
}

func inline(out []Fragment, text string, style Style, depth int) []Fragment {
	if text == "" {
		return out
	}
	if depth > MaxDepth {
		return appendFragment(out, Fragment{Text: text, Style: style})
	}
	spans := candidates(text)
	if len(spans) == 0 {
		return appendFragment(out, Fragment{Text: text, Style: style})
	}
	pos := 0
	for _, sp := range spans {
		if sp.start < pos {
			continue
		}
		if sp.start > pos {
			out = inline(out, text[pos:sp.start], style, depth+1)
		}
		switch sp.kind {
		case spanUnderline:
			out = inline(out, sp.inner, style|Underline, depth+1)
		case spanBold:
			out = inline(out, sp.inner, style|Bold, depth+1)
		case spanItalic:
			out = appendFragment(out, Fragment{Text: sp.inner, Style: style | Italic})
		case spanLink:
			out = appendFragment(out, Fragment{Text: sp.inner, Style: style, URL: sp.url})
		}
		pos = sp.end
	}
	if pos < len(text) {
		out = inline(out, text[pos:], style, depth+1)
	}
	return out
}

func candidates(text string) []span {
	var spans []span
	for _, m := range reSpanUnderline.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], kind: spanUnderline, inner: text[m[2]:m[3]]})
	}
	for _, m := range reSpanBold.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], kind: spanBold, inner: text[m[2]:m[3]]})
	}
	for _, m := range reSpanLink.FindAllStringSubmatchIndex(text, -1) {
		sp := span{start: m[0], end: m[1], kind: spanLink, inner: text[m[2]:m[3]]}
		if href := strings.TrimSpace(text[m[4]:m[5]]); allowedURL(href) {
			sp.url = href
		}
		spans = append(spans, sp)
	}
	spans = append(spans, italicSpans(text)...)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// italicSpans finds *text* runs whose asterisks do not touch another
// asterisk, so that the halves of a **bold** marker never match.
func italicSpans(text string) []span {
	var spans []span
	for i := 0; i < len(text); i++ {
		if text[i] != '*' || (i > 0 && text[i-1] == '*') {
			continue
		}
		end := strings.IndexAny(text[i+1:], "*\n")
		if end <= 0 {
			continue
		}
		j := i + 1 + end
		if text[j] != '*' || (j+1 < len(text) && text[j+1] == '*') {
			continue
		}
		spans = append(spans, span{start: i, end: j + 1, kind: spanItalic, inner: text[i+1 : j]})
		i = j
	}
	return spans
}

func appendFragment(out []Fragment, f Fragment) []Fragment {
	if f.Text == "" {
		return out
	}
	if n := len(out); n > 0 && out[n-1].Style == f.Style && out[n-1].URL == f.URL {
		out[n-1].Text += f.Text
		return out
	}
	return append(out, f)
}

// LineKind classifies a line of the dialect for display.
type LineKind int

const (
	LineBreak LineKind = iota
	LineParagraph
	LineHeading
	LineListItem
)

// Line is one display line of a text field.
type Line struct {
	Kind      LineKind
	Level     int // heading level, 1 to 3
	Fragments []Fragment
}

// Lines splits a text field into display lines. Blank lines become
// breaks, "#" to "###" lines headings, and "- " or "* " lines list items.
func Lines(text string) []Line {
	text = strings.ReplaceAll(text, "\r", "")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			lines = append(lines, Line{Kind: LineBreak})
			continue
		}
		if level, rest, ok := headingLevel(l); ok {
			lines = append(lines, Line{Kind: LineHeading, Level: level, Fragments: Inline(rest)})
			continue
		}
		if rest, ok := cutListMarker(l); ok {
			lines = append(lines, Line{Kind: LineListItem, Fragments: Inline(rest)})
			continue
		}
		lines = append(lines, Line{Kind: LineParagraph, Fragments: Inline(l)})
	}
	return lines
}

func headingLevel(line string) (int, string, bool) {
	for _, h := range headingPrefixes {
		if rest, ok := strings.CutPrefix(line, h.prefix); ok {
			return len(h.prefix) - 1, strings.TrimSpace(rest), true
		}
	}
	return 0, "", false
}

func cutListMarker(line string) (string, bool) {
	for _, marker := range []string{"- ", "* "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// PlainText strips the dialect's markup from text. Lines are kept, list
// items are shown with a bullet and blank lines are dropped.
func PlainText(text string) string {
	var lines []string
	for _, l := range Lines(text) {
		if l.Kind == LineBreak {
			continue
		}
		var sb strings.Builder
		if l.Kind == LineListItem {
			sb.WriteString(Bullet)
		}
		for _, f := range l.Fragments {
			sb.WriteString(f.Text)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Bullet prefixes list items in reader output.
const Bullet = "• "
