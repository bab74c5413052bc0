// Package content holds the article block model: an ordered sequence of
// typed blocks, the serializer that turns it into the stored Markdown
// dialect, and the reader that reconstructs blocks from stored content.
package content

import "strings"

// Kind is the variant tag of a Block.
type Kind string

const (
	KindSection Kind = "section"
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindAudio   Kind = "audio"
	// KindPDF is the legacy name of an attachment-list block. The reader
	// still produces it for audio links.
	KindPDF Kind = "pdf"
)

// Kinds lists the kinds an author can pick in the editor.
var Kinds = []Kind{KindSection, KindText, KindImage, KindAudio}

// ParseKind maps a stored type name to a Kind. Empty and unknown names
// become KindSection.
func ParseKind(s string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSection, KindText, KindImage, KindAudio, KindPDF:
		return k
	default:
		return KindSection
	}
}

// Canonical folds the legacy pdf kind into audio.
func (k Kind) Canonical() Kind {
	if k == KindPDF {
		return KindAudio
	}
	return k
}

// HasAttachments reports whether blocks of this kind carry a file list.
func (k Kind) HasAttachments() bool {
	return k == KindAudio || k == KindPDF
}

// Attachment references an uploaded file. Size is informational and is
// zero for blocks read back from the Markdown dialect.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Block is one unit of authored content. Which fields matter depends on
// Kind:
//
//	section  Title, Body, Image, ImageCaption
//	text     Title (Body when read back from storage)
//	image    Image, ImageCaption
//	audio    Attachments
//	pdf      Attachments
//
// Title and Body hold the Markdown dialect produced by richtext.ToMarkdown.
type Block struct {
	Kind             Kind         `json:"type"`
	Title            string       `json:"title,omitempty"`
	Body             string       `json:"description,omitempty"`
	Image            string       `json:"image,omitempty"`
	ImageCaption     string       `json:"image_caption,omitempty"`
	ImageDescription string       `json:"image_description,omitempty"`
	Attachments      []Attachment `json:"files,omitempty"`
}

// Text returns the rich text a text block displays.
func (b Block) Text() string {
	if strings.TrimSpace(b.Title) != "" {
		return b.Title
	}
	return b.Body
}

// HasContent reports whether the block carries anything worth saving.
func (b Block) HasContent() bool {
	switch b.Kind {
	case KindSection:
		return b.Title != "" || b.Body != "" || b.Image != ""
	case KindText:
		return b.Text() != ""
	case KindImage:
		return b.Image != ""
	case KindAudio, KindPDF:
		return len(b.Attachments) > 0
	}
	return false
}

// Field names one editable field of a Block.
type Field string

const (
	FieldKind             Field = "type"
	FieldTitle            Field = "title"
	FieldBody             Field = "description"
	FieldImage            Field = "image"
	FieldImageCaption     Field = "image_caption"
	FieldImageDescription Field = "image_description"
)

// Direction is the way Move shifts a block.
type Direction int

const (
	Up Direction = iota
	Down
)

// Blocks is an ordered block sequence being edited. All operations are
// safe to call with any arguments; invalid ones leave the sequence
// unchanged and report false.
type Blocks []Block

// New returns a sequence seeded with one empty section block.
func New() Blocks {
	return Blocks{{Kind: KindSection}}
}

// Add appends an empty section block.
func (bs *Blocks) Add() {
	*bs = append(*bs, Block{Kind: KindSection})
}

// Remove deletes the block at i. A sequence never drops below one block.
func (bs *Blocks) Remove(i int) bool {
	if len(*bs) <= 1 || !bs.valid(i) {
		return false
	}
	*bs = append((*bs)[:i], (*bs)[i+1:]...)
	return true
}

// Move swaps the block at i with its neighbour in direction d.
func (bs *Blocks) Move(i int, d Direction) bool {
	if !bs.valid(i) {
		return false
	}
	j := i - 1
	if d == Down {
		j = i + 1
	}
	if !bs.valid(j) {
		return false
	}
	(*bs)[i], (*bs)[j] = (*bs)[j], (*bs)[i]
	return true
}

// Update replaces one field of the block at i.
func (bs *Blocks) Update(i int, f Field, value string) bool {
	if !bs.valid(i) {
		return false
	}
	b := &(*bs)[i]
	switch f {
	case FieldKind:
		b.Kind = ParseKind(value)
	case FieldTitle:
		b.Title = value
	case FieldBody:
		b.Body = value
	case FieldImage:
		b.Image = value
	case FieldImageCaption:
		b.ImageCaption = value
	case FieldImageDescription:
		b.ImageDescription = value
	default:
		return false
	}
	return true
}

// SetAttachments replaces the file list of the block at i.
func (bs *Blocks) SetAttachments(i int, files []Attachment) bool {
	if !bs.valid(i) {
		return false
	}
	(*bs)[i].Attachments = append([]Attachment(nil), files...)
	return true
}

func (bs *Blocks) valid(i int) bool {
	return i >= 0 && i < len(*bs)
}
