package ezoterika

import (
	"strings"
	"time"

	"github.com/eringen/ezoterika/content"
)

// Category groups posts in the feed.
type Category string

const (
	CategoryEsoterics    Category = "esoterics"
	CategoryAstrology    Category = "astrology"
	CategoryTarot        Category = "tarot"
	CategoryNumerology   Category = "numerology"
	CategoryMeditation   Category = "meditation"
	CategorySpirituality Category = "spirituality"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryEsoterics,
	CategoryAstrology,
	CategoryTarot,
	CategoryNumerology,
	CategoryMeditation,
	CategorySpirituality,
	CategoryOther,
}

// ParseCategory returns the category named s, or "" if s names none.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return ""
}

var categoryLabels = map[Category]string{
	CategoryEsoterics:    "Эзотерика",
	CategoryAstrology:    "Астрология",
	CategoryTarot:        "Таро",
	CategoryNumerology:   "Нумерология",
	CategoryMeditation:   "Медитация",
	CategorySpirituality: "Духовность",
	CategoryOther:        "Другое",
}

// Label returns the display name of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Accessibility records who a post is meant for. It is stored and shown
// but not enforced.
type Accessibility string

const (
	AccessAll           Accessibility = "all"
	AccessSubscribers   Accessibility = "subscribers"
	AccessMySubscribers Accessibility = "my_subscribers"
)

// Accessibilities lists every audience in display order.
var Accessibilities = []Accessibility{AccessAll, AccessSubscribers, AccessMySubscribers}

// Label returns the display name of the audience.
func (a Accessibility) Label() string {
	switch a {
	case AccessSubscribers:
		return "Подписчики"
	case AccessMySubscribers:
		return "Мои подписчики"
	}
	return "Все"
}

// Post is the stored article. Content holds the serialized block sequence;
// Title, PreviewText and PreviewImage are derived from it on save.
type Post struct {
	ID            string
	Title         string
	PreviewText   string
	Content       string
	PreviewImage  string
	Category      Category
	Accessibility Accessibility
	Published     bool
	Views         int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/posts/" + p.ID + "/"
}

// Blocks parses the post content.
func (p Post) Blocks() []content.Block {
	return content.Parse(p.Content)
}

// Media is an uploaded file tracked in the store.
type Media struct {
	Name       string
	Type       string
	Size       int64
	Width      int
	Height     int
	UploadedAt time.Time
}

// IsAudio reports whether the file is an audio attachment.
func (m Media) IsAudio() bool {
	return strings.HasPrefix(m.Type, "audio/")
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}
