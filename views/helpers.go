package views

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/ezoterika"
	"github.com/eringen/ezoterika/richtext"
)

// imageSrc returns a safe src for a block image: an inline JPEG/PNG/GIF
// data URI or an address richtext.SafeURL accepts. The result is already
// escaped.
func imageSrc(src string) string {
	src = strings.TrimSpace(src)
	for _, prefix := range []string{"data:image/jpeg;", "data:image/png;", "data:image/gif;"} {
		if strings.HasPrefix(src, prefix) {
			return templ.EscapeString(src)
		}
	}
	return richtext.SafeURL(src)
}

// feedURL builds a home page link that keeps the active filters.
func feedURL(category ezoterika.Category, query string, page int) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", string(category))
	}
	if query != "" {
		q.Set("q", query)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func viewCount(n int64) string {
	return humanize.Comma(n)
}

func fileSize(n int64) string {
	if n <= 0 {
		return ""
	}
	return humanize.IBytes(uint64(n))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
