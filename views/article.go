package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/ezoterika"
	"github.com/eringen/ezoterika/content"
	"github.com/eringen/ezoterika/richtext"
)

func (s *site) post(article ezoterika.Article, siteURL string) templ.Component {
	cfg := s.cfg
	cfg.URL = siteURL
	p := article.Post
	return s.layout(ezoterika.PostMeta(p, cfg), ezoterika.ArticleJsonLD(p, cfg), false, func(w *writer) {
		w.raw(`<article class="article">`)
		w.raw(`<h1>`)
		w.component(richtext.RenderInline(p.Title))
		w.raw(`</h1>`)
		if p.PreviewText != "" && p.PreviewText != p.Title {
			w.raw(`<div class="preview">`)
			w.component(richtext.Render(p.PreviewText))
			w.raw(`</div>`)
		}
		w.raw(`<div class="meta"><a class="category"`)
		w.attr("href", feedURL(p.Category, "", 1))
		w.raw(">")
		w.text(p.Category.Label())
		w.raw(`</a><time`)
		w.attr("datetime", isoDate(p.CreatedAt))
		w.raw(">")
		w.text(isoDate(p.CreatedAt))
		w.raw(`</time><span class="views">`)
		w.text(viewCount(p.Views))
		w.raw(`</span>`)
		if p.Accessibility != "" && p.Accessibility != ezoterika.AccessAll {
			w.raw(`<span class="access">`)
			w.text(p.Accessibility.Label())
			w.raw(`</span>`)
		}
		w.raw(`</div>`)
		if src := imageSrc(p.PreviewImage); src != "" && !leadsWithImage(article, p.PreviewImage) {
			w.raw(`<img class="cover" src="` + src + `" alt="">`)
		}

		if len(article.Contents) > 1 {
			w.raw(`<nav class="contents"><ol>`)
			for _, e := range article.Contents {
				w.raw(`<li><a href="#` + templ.EscapeString(e.Anchor) + `">`)
				w.text(e.Title)
				w.raw(`</a></li>`)
			}
			w.raw(`</ol></nav>`)
		}

		for _, b := range article.Blocks {
			articleBlock(w, b)
		}
		w.raw(`</article>`)

		if len(article.Related) > 0 {
			w.raw(`<aside class="related"><h2>Ещё по теме</h2><ul class="posts">`)
			for _, r := range article.Related {
				postCard(w, r)
			}
			w.raw(`</ul></aside>`)
		}
	})
}

// leadsWithImage reports whether the first visible block already shows img.
func leadsWithImage(article ezoterika.Article, img string) bool {
	return len(article.Blocks) > 0 && article.Blocks[0].Image == img
}

func articleBlock(w *writer, b ezoterika.ArticleBlock) {
	w.raw(`<section class="block block-` + templ.EscapeString(string(b.Kind)) + `" id="` + templ.EscapeString(b.Anchor) + `">`)
	switch b.Kind {
	case content.KindSection:
		if b.Title != "" {
			w.raw(`<h2>`)
			w.component(richtext.RenderInline(b.Title))
			w.raw(`</h2>`)
		}
		if b.Body != "" {
			w.component(richtext.Render(b.Body))
		}
		figure(w, b.Block)
	case content.KindText:
		w.component(richtext.Render(b.Text()))
	case content.KindImage:
		figure(w, b.Block)
	case content.KindAudio, content.KindPDF:
		w.raw(`<ul class="files">`)
		for _, f := range b.Files {
			w.raw(`<li><span class="file-name">`)
			w.text(f.Name)
			w.raw(`</span><audio controls preload="none"`)
			w.attr("src", f.URL)
			w.raw(`></audio></li>`)
		}
		w.raw(`</ul>`)
	}
	w.raw(`</section>`)
}

func figure(w *writer, b content.Block) {
	src := imageSrc(b.Image)
	if src == "" {
		return
	}
	alt := b.ImageDescription
	if alt == "" {
		alt = b.ImageCaption
	}
	w.raw(`<figure><img src="` + src + `"`)
	w.attr("alt", alt)
	w.raw(` loading="lazy">`)
	if b.ImageCaption != "" {
		w.raw(`<figcaption>`)
		w.text(b.ImageCaption)
		w.raw(`</figcaption>`)
	}
	w.raw(`</figure>`)
}
