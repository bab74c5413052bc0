package ezoterika

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/ezoterika/content"
	"github.com/eringen/ezoterika/richtext"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Category    string        `xml:"category,omitempty"`
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

func (a *App) renderRSS(c echo.Context, posts []Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := BuildURL(base, "posts", p.ID)
		items = append(items, rssItem{
			Title:       richtext.PlainText(p.Title),
			Link:        postURL,
			Description: richtext.PlainText(p.PreviewText),
			Category:    string(p.Category),
			PubDate:     p.CreatedAt.Format(time.RFC1123Z),
			GUID:        postURL,
			Enclosure:   a.firstAudio(p),
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// firstAudio returns an enclosure for the first audio attachment of p.
func (a *App) firstAudio(p Post) *rssEnclosure {
	for _, b := range p.Blocks() {
		if !b.Kind.HasAttachments() || len(b.Attachments) == 0 {
			continue
		}
		f := b.Attachments[0]
		typ := f.Type
		if typ == "" {
			typ = content.AudioMIME
		}
		return &rssEnclosure{
			URL:    strings.TrimRight(a.Config.URL, "/") + resolveMedia(a.Media, content.AudioPath(f.Name)),
			Length: f.Size,
			Type:   typ,
		}
	}
	return nil
}
