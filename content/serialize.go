package content

import (
	"encoding/json"
	"strings"
)

const (
	// Separator is the line that divides blocks in stored content.
	Separator = "---"

	escapeMark      = `\`
	audioIcon       = "🎵"
	audioPathPrefix = "audio/"
)

// Serialize renders blocks as the stored Markdown dialect. Fields a kind
// does not use are ignored. Serialize never fails; empty fields simply
// produce no output.
func Serialize(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = serializeBlock(b)
	}
	return strings.TrimRight(strings.Join(parts, Separator+"\n\n"), " \t\r\n")
}

func serializeBlock(b Block) string {
	var sb strings.Builder
	switch b.Kind {
	case KindSection:
		if b.Title != "" {
			sb.WriteString("## " + headingLine(b.Title) + "\n\n")
		}
		if b.Body != "" {
			sb.WriteString(escapeLines(b.Body) + "\n\n")
		}
		writeImage(&sb, b)
	case KindText:
		if text := b.Text(); text != "" {
			sb.WriteString(escapeLines(text) + "\n\n")
		}
	case KindImage:
		writeImage(&sb, b)
	case KindAudio, KindPDF:
		for _, f := range b.Attachments {
			sb.WriteString(AudioLink(f.Name) + "\n\n")
		}
	}
	return sb.String()
}

func writeImage(sb *strings.Builder, b Block) {
	if b.Image == "" {
		return
	}
	sb.WriteString("![" + b.ImageCaption + "](" + b.Image + ")\n\n")
}

// AudioLink returns the stored line for an audio attachment.
func AudioLink(name string) string {
	return "[" + audioIcon + " " + name + "](" + AudioPath(name) + ")"
}

// AudioPath returns the media path an audio attachment is stored under.
func AudioPath(name string) string {
	return audioPathPrefix + name
}

// headingLine folds a title onto one line; a section heading cannot span
// lines in the stored format.
func headingLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

// needsEscape reports whether a rich-text line would read back as block
// structure. A line already starting with the escape mark needs another
// one when the rest of it does.
func needsEscape(line string) bool {
	switch {
	case isSeparator(line),
		strings.HasPrefix(line, "## "),
		strings.HasPrefix(line, "!["),
		strings.HasPrefix(line, "["+audioIcon):
		return true
	}
	rest, ok := strings.CutPrefix(line, escapeMark)
	return ok && needsEscape(rest)
}

// escapeLines prefixes the escape mark to every line of s that
// needsEscape.
func escapeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if needsEscape(line) {
			lines[i] = escapeMark + line
		}
	}
	return strings.Join(lines, "\n")
}

func isSeparator(line string) bool {
	return strings.TrimSpace(line) == Separator
}

// EncodeLegacy renders blocks in the legacy JSON array encoding.
func EncodeLegacy(blocks []Block) (string, error) {
	if blocks == nil {
		blocks = []Block{}
	}
	b, err := json.Marshal(blocks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Summary carries the post fields derived from a block sequence.
type Summary struct {
	Title   string
	Preview string
	Image   string
}

// FirstTitle returns the trimmed title of the first block that has one.
func FirstTitle(blocks []Block) string {
	for _, b := range blocks {
		if t := strings.TrimSpace(b.Title); t != "" {
			return t
		}
	}
	return ""
}

// FirstPreview returns the trimmed body of the first block that has one.
func FirstPreview(blocks []Block) string {
	for _, b := range blocks {
		if p := strings.TrimSpace(b.Body); p != "" {
			return p
		}
	}
	return ""
}

// FirstImage returns the image of the first section or image block that
// has one.
func FirstImage(blocks []Block) string {
	for _, b := range blocks {
		if (b.Kind == KindSection || b.Kind == KindImage) && b.Image != "" {
			return b.Image
		}
	}
	return ""
}

// Summarize derives a post's title, preview text and preview image. The
// preview falls back to the title when no block has a body.
func Summarize(blocks []Block) Summary {
	s := Summary{
		Title:   FirstTitle(blocks),
		Preview: FirstPreview(blocks),
		Image:   FirstImage(blocks),
	}
	if s.Preview == "" {
		s.Preview = s.Title
	}
	return s
}
