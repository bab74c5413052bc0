package richtext

import (
	"bytes"
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Render returns a templ.Component that writes text as reader HTML.
func Render(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderReader(&buf, text)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderInline returns a templ.Component that writes one line of text
// with its inline styles and no block markup. Section titles use it.
func RenderInline(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		for _, f := range Inline(text) {
			writeFragment(&buf, f)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderReader writes the reader HTML of text to buf. Headings inside a
// field start at h3, below the post title and section titles.
func RenderReader(buf *bytes.Buffer, text string) {
	inList := false
	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	for _, l := range Lines(text) {
		switch l.Kind {
		case LineBreak:
			flushList()
			buf.WriteString("<br>")
		case LineHeading:
			flushList()
			tag := "h" + strconv.Itoa(l.Level+2)
			buf.WriteString("<" + tag + ">")
			writeFragments(buf, l.Fragments)
			buf.WriteString("</" + tag + ">")
		case LineListItem:
			if !inList {
				buf.WriteString(`<ul class="content-list">`)
				inList = true
			}
			buf.WriteString("<li>")
			writeFragments(buf, l.Fragments)
			buf.WriteString("</li>")
		default:
			flushList()
			buf.WriteString("<p>")
			writeFragments(buf, l.Fragments)
			buf.WriteString("</p>")
		}
	}
	flushList()
}

func writeFragments(buf *bytes.Buffer, frags []Fragment) {
	for _, f := range frags {
		writeFragment(buf, f)
	}
}

func writeFragment(buf *bytes.Buffer, f Fragment) {
	var closers []string
	open := func(tag, attrs string) {
		buf.WriteString("<" + tag + attrs + ">")
		closers = append(closers, "</"+tag+">")
	}
	if f.URL != "" {
		open("a", ` href="`+html.EscapeString(f.URL)+`" target="_blank" rel="noopener noreferrer"`)
	}
	if f.Style.Has(Bold) {
		open("strong", "")
	}
	if f.Style.Has(Italic) {
		open("em", "")
	}
	if f.Style.Has(Underline) {
		open("u", "")
	}
	buf.WriteString(html.EscapeString(f.Text))
	for i := len(closers) - 1; i >= 0; i-- {
		buf.WriteString(closers[i])
	}
}
