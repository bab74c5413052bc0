package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/ezoterika"
	"github.com/eringen/ezoterika/richtext"
)

func (s *site) home(feed ezoterika.Feed, siteURL string) templ.Component {
	meta := ezoterika.PageMeta{URL: ezoterika.BuildURL(siteURL), OGType: "website"}
	if feed.Category != "" {
		meta.Title = feed.Category.Label()
	}
	return s.layout(meta, ezoterika.WebsiteJsonLD(s.cfg), false, func(w *writer) {
		w.component(s.feedPartial(feed))
	})
}

func (s *site) feedPartial(feed ezoterika.Feed) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section id="feed" class="feed">`)

		w.raw(`<form class="search" method="get" action="/">`)
		if feed.Category != "" {
			w.raw(`<input type="hidden" name="category"`)
			w.attr("value", string(feed.Category))
			w.raw(">")
		}
		w.raw(`<input type="search" name="q" placeholder="Поиск"`)
		w.attr("value", feed.Query)
		w.raw(`><button type="submit">Найти</button></form>`)

		w.raw(`<nav class="categories">`)
		categoryLink(w, "Все", feedURL("", feed.Query, 1), feed.Category == "")
		for _, c := range feed.Categories {
			categoryLink(w, c.Label(), feedURL(c, feed.Query, 1), feed.Category == c)
		}
		w.raw(`</nav>`)

		if len(feed.Page.Posts) == 0 {
			w.raw(`<p class="empty">Здесь пока ничего нет.</p>`)
		} else {
			w.raw(`<ul class="posts">`)
			for _, p := range feed.Page.Posts {
				postCard(w, p)
			}
			w.raw(`</ul>`)
		}

		if feed.Page.Pages > 1 {
			w.raw(`<nav class="pagination">`)
			if feed.Page.HasPrev() {
				w.raw(`<a rel="prev"`)
				w.attr("href", feedURL(feed.Category, feed.Query, feed.Page.Number-1))
				w.raw(`>Назад</a>`)
			}
			w.raw(`<span class="page-number">`)
			w.text(itoa(feed.Page.Number) + " / " + itoa(feed.Page.Pages))
			w.raw(`</span>`)
			if feed.Page.HasNext() {
				w.raw(`<a rel="next"`)
				w.attr("href", feedURL(feed.Category, feed.Query, feed.Page.Number+1))
				w.raw(`>Дальше</a>`)
			}
			w.raw(`</nav>`)
		}
		w.raw(`</section>`)
	})
}

func categoryLink(w *writer, label, href string, active bool) {
	w.raw("<a")
	w.attr("href", href)
	if active {
		w.raw(` class="active" aria-current="page"`)
	}
	w.raw(">")
	w.text(label)
	w.raw("</a>")
}

func postCard(w *writer, p ezoterika.Post) {
	w.raw(`<li class="post-card">`)
	if src := imageSrc(p.PreviewImage); src != "" {
		w.raw(`<a class="cover" href="` + templ.EscapeString(p.Link()) + `"><img src="` + src + `" alt="" loading="lazy"></a>`)
	}
	w.raw(`<h2><a`)
	w.attr("href", p.Link())
	w.raw(">")
	w.component(richtext.RenderInline(p.Title))
	w.raw(`</a></h2>`)
	if preview := richtext.PlainText(p.PreviewText); preview != "" && p.PreviewText != p.Title {
		w.raw(`<p class="preview">`)
		w.text(preview)
		w.raw(`</p>`)
	}
	w.raw(`<div class="meta"><span class="category">`)
	w.text(p.Category.Label())
	w.raw(`</span><time`)
	w.attr("datetime", isoDate(p.CreatedAt))
	w.raw(">")
	w.text(ago(p.CreatedAt))
	w.raw(`</time><span class="views">`)
	w.text(viewCount(p.Views))
	w.raw(`</span></div></li>`)
}
