package ezoterika

import (
	"strconv"
	"strings"

	"github.com/eringen/ezoterika/content"
	"github.com/eringen/ezoterika/richtext"
)

// Article is a post prepared for the reader: its visible blocks and a
// table of contents.
type Article struct {
	Post     Post
	Blocks   []ArticleBlock
	Contents []ContentsEntry
	Related  []Post
}

// ArticleBlock is one displayed block with its anchor and resolved files.
type ArticleBlock struct {
	content.Block
	Anchor string
	Files  []ArticleFile
}

// ArticleFile is an attachment with the URL it is served from.
type ArticleFile struct {
	Name string
	Type string
	URL  string
}

// ContentsEntry links a section title to its block.
type ContentsEntry struct {
	Anchor string
	Title  string
}

// BuildArticle parses the post content and drops a leading block that
// only restates the post header. Attachment paths resolve through media.
func BuildArticle(post Post, media MediaStore) Article {
	visible := content.Visible(post.Blocks(), post.Title, post.PreviewText)
	art := Article{Post: post, Blocks: make([]ArticleBlock, 0, len(visible))}
	for i, b := range visible {
		ab := ArticleBlock{Block: b, Anchor: "block-" + strconv.Itoa(i)}
		for _, f := range b.Attachments {
			ab.Files = append(ab.Files, ArticleFile{
				Name: f.Name,
				Type: f.Type,
				URL:  resolveMedia(media, content.AudioPath(f.Name)),
			})
		}
		art.Blocks = append(art.Blocks, ab)
		if title := strings.TrimSpace(richtext.PlainText(b.Title)); title != "" {
			art.Contents = append(art.Contents, ContentsEntry{Anchor: ab.Anchor, Title: title})
		}
	}
	return art
}

func resolveMedia(media MediaStore, name string) string {
	if media == nil {
		return mediaURL(name)
	}
	return media.URL(name)
}

// RelatedPosts returns up to n other posts from the same category.
func RelatedPosts(current Post, posts []Post, n int) []Post {
	var related []Post
	for _, p := range posts {
		if len(related) >= n {
			break
		}
		if p.ID == current.ID || p.Category != current.Category {
			continue
		}
		related = append(related, p)
	}
	return related
}
