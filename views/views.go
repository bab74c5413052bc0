package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/ezoterika"
)

type site struct {
	cfg ezoterika.SiteConfig
}

// New returns the default view set for cfg.
func New(cfg ezoterika.SiteConfig) ezoterika.ViewFuncs {
	s := &site{cfg: cfg}
	return ezoterika.ViewFuncs{
		Home:           s.home,
		FeedPartial:    s.feedPartial,
		Post:           s.post,
		AdminLogin:     s.adminLogin,
		AdminDashboard: s.adminDashboard,
		Editor:         s.editor,
		AdminMedia:     s.adminMedia,
		NotFound:       s.notFound,
		ServerError:    s.serverError,
	}
}

func (s *site) notFound() templ.Component {
	return s.layout(ezoterika.PageMeta{Title: "Не найдено"}, "", false, func(w *writer) {
		w.raw(`<section class="error-page"><h1>404</h1><p>Страница не найдена.</p><a href="/">На главную</a></section>`)
	})
}

func (s *site) serverError() templ.Component {
	return s.layout(ezoterika.PageMeta{Title: "Ошибка"}, "", false, func(w *writer) {
		w.raw(`<section class="error-page"><h1>500</h1><p>Что-то пошло не так. Попробуйте позже.</p></section>`)
	})
}
