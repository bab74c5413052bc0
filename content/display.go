package content

import (
	"encoding/json"
	"errors"
	"strings"
)

// Elide reports whether the first block of an article only restates the
// post header. Such a section repeats the post title (or has none) and
// either repeats the preview text or has no body.
func Elide(first Block, title, preview string) bool {
	if first.Kind != KindSection {
		return false
	}
	if first.Title != title && first.Title != "" {
		return false
	}
	body := strings.TrimSpace(first.Body)
	return body == "" || first.Body == preview || body == strings.TrimSpace(preview)
}

// Visible returns the blocks an article displays, leaving out a leading
// block that Elide rejects. The input slice is not modified.
func Visible(blocks []Block, title, preview string) []Block {
	if len(blocks) > 0 && Elide(blocks[0], title, preview) {
		return blocks[1:]
	}
	return blocks
}

// DefaultMaxSize is the largest draft, measured as its JSON encoding,
// that Validate accepts.
const DefaultMaxSize = 500000

var (
	ErrNoContent = errors.New("content: add at least one block with content")
	ErrNoTitle   = errors.New("content: add a title to one of the blocks")
	ErrTooLarge  = errors.New("content: draft is too large")
)

// Validate checks a draft before it is saved. A draft needs at least one
// block with content, one titled block, and must encode to at most
// maxBytes of JSON. maxBytes <= 0 disables the size check.
func Validate(blocks []Block, maxBytes int) error {
	has := false
	for _, b := range blocks {
		if b.HasContent() {
			has = true
			break
		}
	}
	if !has {
		return ErrNoContent
	}
	if FirstTitle(blocks) == "" {
		return ErrNoTitle
	}
	if maxBytes > 0 {
		raw, err := json.Marshal(blocks)
		if err != nil {
			return err
		}
		if len(raw) > maxBytes {
			return ErrTooLarge
		}
	}
	return nil
}
