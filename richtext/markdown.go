package richtext

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reUnderline = regexp.MustCompile(`&lt;u&gt;(.+?)&lt;/u&gt;`)
	reLink      = regexp.MustCompile(`\[(.+?)\]\((.*?)\)`)
	reBold      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic    = regexp.MustCompile(`\*([^*]+)\*`)
	reFormatTag = regexp.MustCompile(`</?(u|strong|em)>`)
)

var headingPrefixes = []struct {
	prefix string
	tag    string
}{
	{"### ", "h3"},
	{"## ", "h2"},
	{"# ", "h1"},
}

// ToHTML converts the Markdown dialect back to editor HTML. Lines are
// grouped at blank lines. A group holding a single heading line becomes
// that heading, a group of list lines becomes one list, and any other
// group becomes a paragraph with its lines separated by <br>.
func ToHTML(md string) string {
	var buf bytes.Buffer
	RenderHTML(&buf, md)
	return buf.String()
}

// RenderHTML writes the HTML form of md to buf.
func RenderHTML(buf *bytes.Buffer, md string) {
	var group []string
	flush := func() {
		if len(group) == 0 {
			return
		}
		writeGroup(buf, group)
		group = group[:0]
	}
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		group = append(group, line)
	}
	flush()
}

func writeGroup(buf *bytes.Buffer, lines []string) {
	if len(lines) == 1 {
		for _, h := range headingPrefixes {
			if text, ok := cutMarker(lines[0], h.prefix); ok {
				buf.WriteString("<" + h.tag + ">" + FormatInline(text) + "</" + h.tag + ">")
				return
			}
		}
	}
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		text, ok := cutMarker(line, "- ")
		if !ok {
			break
		}
		items = append(items, text)
	}
	if len(items) == len(lines) {
		buf.WriteString("<ul>")
		for _, item := range items {
			buf.WriteString("<li>" + FormatInline(item) + "</li>")
		}
		buf.WriteString("</ul>")
		return
	}
	buf.WriteString("<p>")
	for i, line := range lines {
		if i > 0 {
			buf.WriteString("<br>")
		}
		buf.WriteString(FormatInline(line))
	}
	buf.WriteString("</p>")
}

// cutMarker strips a block marker from line. The text after the marker
// must not start with more whitespace, since it would not survive the
// trip back through ToMarkdown.
func cutMarker(line, marker string) (string, bool) {
	text, ok := strings.CutPrefix(line, marker)
	if !ok || text == "" || text != strings.TrimSpace(text) {
		return "", false
	}
	return text, true
}

// FormatInline applies inline formatting (underline, links, bold, italic)
// to one line of s. Links are swapped for placeholders while emphasis is
// applied so that asterisks in URLs are left alone. Emphasis that would
// straddle another tag stays literal.
func FormatInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = reUnderline.ReplaceAllString(escaped, "<u>$1</u>")
	var links []string
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		raw := html.UnescapeString(match[2])
		href := SafeURL(match[2])
		if href == "" || raw != strings.TrimSpace(raw) || !balanced(match[1]) {
			return m
		}
		links = append(links, `<a href="`+href+`">`+emphasis(match[1])+`</a>`)
		return linkPlaceholder(len(links) - 1)
	})
	escaped = emphasis(escaped)
	for i, link := range links {
		escaped = strings.Replace(escaped, linkPlaceholder(i), link, 1)
	}
	return escaped
}

func linkPlaceholder(i int) string {
	return "\x00L" + strconv.Itoa(i) + "\x00"
}

func emphasis(s string) string {
	s = reBold.ReplaceAllStringFunc(s, func(m string) string {
		inner := m[2 : len(m)-2]
		if !balanced(inner) {
			return m
		}
		return "<strong>" + inner + "</strong>"
	})
	return reItalic.ReplaceAllStringFunc(s, func(m string) string {
		inner := m[1 : len(m)-1]
		if !balanced(inner) {
			return m
		}
		return "<em>" + inner + "</em>"
	})
}

// balanced reports whether the formatting tags in s close in order.
func balanced(s string) bool {
	var open []string
	for _, m := range reFormatTag.FindAllStringSubmatch(s, -1) {
		if m[0][1] != '/' {
			open = append(open, m[1])
			continue
		}
		if len(open) == 0 || open[len(open)-1] != m[1] {
			return false
		}
		open = open[:len(open)-1]
	}
	return len(open) == 0
}

// SafeURL validates and sanitizes a URL for use in HTML attributes. It
// returns "" for anything but http, https, mailto and tel URLs and
// site-relative paths.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if !allowedURL(val) {
		return ""
	}
	return html.EscapeString(val)
}

func allowedURL(val string) bool {
	if val == "" {
		return false
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return true
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return true
	default:
		return false
	}
}
