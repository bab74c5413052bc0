package views

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/ezoterika"
	"github.com/eringen/ezoterika/richtext"
)

var adminMessages = map[string]string{
	"saved":     "Публикация сохранена.",
	"deleted":   "Публикация удалена.",
	"unchanged": "Изменений нет.",
}

func csrfInput(w *writer, token string) {
	w.raw(`<input type="hidden" name="_csrf"`)
	w.attr("value", token)
	w.raw(">")
}

func (s *site) adminLogin(showError bool, csrfToken string) templ.Component {
	return s.layout(ezoterika.PageMeta{Title: "Вход"}, "", true, func(w *writer) {
		w.raw(`<section class="admin-login"><h1>Вход</h1>`)
		if showError {
			w.raw(`<p class="editor-error" role="alert">Неверный пароль.</p>`)
		}
		w.raw(`<form method="post" action="/admin/login/">`)
		csrfInput(w, csrfToken)
		w.raw(`<label>Пароль <input type="password" name="password" required autofocus></label>`)
		w.raw(`<button type="submit">Войти</button></form></section>`)
	})
}

func (s *site) adminDashboard(posts []ezoterika.Post, message string, csrfToken string) templ.Component {
	return s.layout(ezoterika.PageMeta{Title: "Публикации"}, "", true, func(w *writer) {
		w.raw(`<section class="admin-dashboard"><h1>Публикации</h1>`)
		if message != "" {
			text, ok := adminMessages[message]
			if !ok {
				text = message
			}
			w.raw(`<p class="admin-message" role="status">`)
			w.text(text)
			w.raw(`</p>`)
		}
		w.raw(`<nav class="admin-nav"><a href="/admin/new/">Новая публикация</a><a href="/admin/media/">Медиа</a>`)
		w.raw(`<form method="post" action="/admin/logout/">`)
		csrfInput(w, csrfToken)
		w.raw(`<button type="submit">Выйти</button></form></nav>`)

		w.raw(`<table class="admin-posts"><thead><tr><th>Заголовок</th><th>Категория</th><th>Статус</th><th>Просмотры</th><th>Изменено</th><th></th></tr></thead><tbody>`)
		for _, p := range posts {
			w.raw(`<tr><td><a`)
			w.attr("href", "/admin/post/"+p.ID+"/")
			w.raw(">")
			w.text(richtext.PlainText(p.Title))
			w.raw(`</a></td><td>`)
			w.text(p.Category.Label())
			w.raw(`</td><td>`)
			if p.Published {
				w.raw(`<a`)
				w.attr("href", p.Link())
				w.raw(`>Опубликовано</a>`)
			} else {
				w.raw(`Черновик`)
			}
			w.raw(`</td><td>`)
			w.text(viewCount(p.Views))
			w.raw(`</td><td>`)
			w.text(ago(p.UpdatedAt))
			w.raw(`</td><td>`)
			deleteButton(w, "/admin/post/"+p.ID+"/", csrfToken)
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></section>`)
	})
}

// deleteButton is handled by editor.js, which sends a DELETE request.
func deleteButton(w *writer, target, csrfToken string) {
	w.raw(`<button type="button" class="danger"`)
	w.attr("data-delete-url", target)
	w.attr("data-csrf", csrfToken)
	w.raw(`>Удалить</button>`)
}

func (s *site) adminMedia(media []ezoterika.Media, csrfToken string) templ.Component {
	return s.layout(ezoterika.PageMeta{Title: "Медиа"}, "", true, func(w *writer) {
		w.raw(`<section class="admin-media"><h1>Медиа</h1><a href="/admin/">Назад</a>`)
		if len(media) == 0 {
			w.raw(`<p class="empty">Файлов пока нет.</p>`)
		}
		w.raw(`<ul class="media-list">`)
		for _, m := range media {
			src := "/media/" + m.Name
			w.raw(`<li class="media-item">`)
			switch {
			case m.IsAudio():
				w.raw(`<audio controls preload="none"`)
				w.attr("src", src)
				w.raw(`></audio>`)
			case strings.HasPrefix(m.Type, "image/"):
				w.raw(`<img loading="lazy" alt=""`)
				w.attr("src", src)
				w.raw(`>`)
			}
			w.raw(`<span class="media-name">`)
			w.text(m.Name)
			w.raw(`</span><span class="media-size">`)
			w.text(fileSize(m.Size))
			if m.Width > 0 && m.Height > 0 {
				w.text(" · " + itoa(m.Width) + "×" + itoa(m.Height))
			}
			w.raw(`</span><time`)
			w.attr("datetime", isoDate(m.UploadedAt))
			w.raw(">")
			w.text(ago(m.UploadedAt))
			w.raw(`</time>`)
			deleteButton(w, "/admin/media/?name="+url.QueryEscape(m.Name), csrfToken)
			w.raw(`</li>`)
		}
		w.raw(`</ul></section>`)
	})
}
