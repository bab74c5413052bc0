// Package views provides the default pages of an ezoterika site, built
// as templ components.
package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/ezoterika"
)

// writer accumulates a page and the first error from nested components.
type writer struct {
	ctx context.Context
	buf bytes.Buffer
	err error
}

func (w *writer) raw(s string) {
	w.buf.WriteString(s)
}

func (w *writer) text(s string) {
	w.buf.WriteString(templ.EscapeString(s))
}

func (w *writer) attr(name, val string) {
	w.buf.WriteString(" " + name + `="` + templ.EscapeString(val) + `"`)
}

func (w *writer) component(c templ.Component) {
	if w.err != nil {
		return
	}
	w.err = c.Render(w.ctx, &w.buf)
}

func component(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{ctx: ctx}
		fn(w)
		if w.err != nil {
			return w.err
		}
		_, err := out.Write(w.buf.Bytes())
		return err
	})
}

// layout wraps body in the site shell.
func (s *site) layout(meta ezoterika.PageMeta, jsonLD string, admin bool, body func(w *writer)) templ.Component {
	return component(func(w *writer) {
		title := s.cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + s.cfg.Name
		}
		description := meta.Description
		if description == "" {
			description = s.cfg.Description
		}
		w.raw(`<!doctype html><html lang="ru"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw("<title>")
		w.text(title)
		w.raw("</title>")
		w.raw(`<meta name="description"`)
		w.attr("content", description)
		w.raw(">")
		if meta.URL != "" {
			w.raw(`<link rel="canonical"`)
			w.attr("href", meta.URL)
			w.raw(">")
			w.raw(`<meta property="og:url"`)
			w.attr("content", meta.URL)
			w.raw(">")
		}
		w.raw(`<meta property="og:title"`)
		w.attr("content", title)
		w.raw(">")
		w.raw(`<meta property="og:description"`)
		w.attr("content", description)
		w.raw(">")
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		w.raw(`<meta property="og:type"`)
		w.attr("content", ogType)
		w.raw(">")
		if meta.Image != "" {
			w.raw(`<meta property="og:image"`)
			w.attr("content", meta.Image)
			w.raw(">")
		}
		w.raw(`<link rel="stylesheet" href="/public/content.css">`)
		w.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		w.attr("title", s.cfg.Name)
		w.raw(">")
		if jsonLD != "" {
			// json.Marshal escapes <, > and &, so the payload cannot close the tag.
			w.raw(`<script type="application/ld+json">` + jsonLD + `</script>`)
		}
		if admin {
			w.raw(`<script src="/public/editor.js" defer></script>`)
		}
		w.raw(`</head><body><header class="site-header"><a class="site-name" href="/">`)
		w.text(s.cfg.Name)
		w.raw(`</a></header><main>`)
		body(w)
		w.raw(`</main></body></html>`)
	})
}
