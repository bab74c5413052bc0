package ezoterika

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/eringen/ezoterika/richtext"
)

// Slugify converts a title or filename to a URL-safe slug. Accents are
// stripped from Latin letters; other scripts are kept as they are, so
// Cyrillic titles keep й and ё.
func Slugify(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	var b strings.Builder
	dash := false
	for _, r := range norm.NFC.String(strings.ToLower(strings.TrimSpace(s))) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
			continue
		case r > unicode.MaxASCII && unicode.Is(unicode.Latin, r):
			if folded, _, err := transform.String(fold, string(r)); err == nil {
				b.WriteString(folded)
				dash = false
				continue
			}
		}
		b.WriteRune(r)
		dash = false
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ArticleJsonLD returns a JSON-LD string for an Article schema.
func ArticleJsonLD(post Post, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "posts", post.ID)
	data := map[string]interface{}{
		"@context":       "https://schema.org",
		"@type":          "Article",
		"headline":       richtext.PlainText(post.Title),
		"description":    richtext.PlainText(post.PreviewText),
		"datePublished":  post.CreatedAt.Format("2006-01-02"),
		"dateModified":   post.UpdatedAt.Format("2006-01-02"),
		"articleSection": string(post.Category),
		"url":            postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.PreviewImage != "" && !strings.HasPrefix(post.PreviewImage, "data:") {
		data["image"] = absoluteURL(cfg.URL, post.PreviewImage)
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// absoluteURL resolves a site-relative reference against base.
func absoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// PostMeta returns the OpenGraph metadata for a post page.
func PostMeta(post Post, cfg SiteConfig) PageMeta {
	meta := PageMeta{
		Title:       richtext.PlainText(post.Title),
		Description: richtext.PlainText(post.PreviewText),
		URL:         BuildURL(cfg.URL, "posts", post.ID),
		OGType:      "article",
	}
	if post.PreviewImage != "" && !strings.HasPrefix(post.PreviewImage, "data:") {
		meta.Image = absoluteURL(cfg.URL, post.PreviewImage)
	}
	return meta
}
