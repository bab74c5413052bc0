package content

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	reImageLine = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	reAudioLine = regexp.MustCompile(`\[` + audioIcon + `\s*([^\]]+)\]\(([^)]+)\)`)
)

// AudioMIME is the type recorded for attachments read back from links.
const AudioMIME = "audio/mpeg"

// Parse reconstructs the block sequence of stored content. Content that
// decodes as a JSON array is read with the legacy encoding; anything else
// is read as the Markdown dialect. Parse never fails: empty input yields
// an empty sequence.
func Parse(content string) []Block {
	if strings.TrimSpace(content) == "" {
		return []Block{}
	}
	if blocks, ok := parseLegacy(content); ok {
		return blocks
	}
	return parseMarkdown(content)
}

// legacyBlock accepts both spellings the old editors wrote.
type legacyBlock struct {
	Type                  string       `json:"type"`
	Title                 string       `json:"title"`
	Description           string       `json:"description"`
	Image                 string       `json:"image"`
	ImageCaption          string       `json:"imageCaption"`
	ImageCaptionSnake     string       `json:"image_caption"`
	ImageDescription      string       `json:"imageDescription"`
	ImageDescriptionSnake string       `json:"image_description"`
	Files                 []Attachment `json:"files"`
}

func (lb legacyBlock) block() Block {
	return Block{
		Kind:             ParseKind(lb.Type),
		Title:            lb.Title,
		Body:             lb.Description,
		Image:            lb.Image,
		ImageCaption:     firstNonEmpty(lb.ImageCaption, lb.ImageCaptionSnake),
		ImageDescription: firstNonEmpty(lb.ImageDescription, lb.ImageDescriptionSnake),
		Attachments:      lb.Files,
	}
}

func parseLegacy(content string) ([]Block, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var raw []legacyBlock
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, false
	}
	blocks := make([]Block, 0, len(raw))
	for _, lb := range raw {
		blocks = append(blocks, lb.block())
	}
	return blocks, true
}

func parseMarkdown(content string) []Block {
	blocks := []Block{}
	for _, seg := range splitSegments(content) {
		blocks = append(blocks, parseSegment(seg)...)
	}
	return blocks
}

// splitSegments cuts content at separator lines. Blank lines are kept as
// empty strings; segments with no other lines are dropped.
func splitSegments(content string) [][]string {
	var (
		segs    [][]string
		cur     []string
		hasText bool
	)
	flush := func() {
		if hasText {
			segs = append(segs, cur)
		}
		cur, hasText = nil, false
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if isSeparator(line) {
			flush()
			continue
		}
		if strings.TrimSpace(line) == "" {
			line = ""
		} else {
			hasText = true
		}
		cur = append(cur, line)
	}
	flush()
	return segs
}

func parseSegment(lines []string) []Block {
	var (
		out []Block
		cur *Block
		gap bool // blank line seen since the last body line
	)
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
		gap = false
	}
	for _, line := range lines {
		switch {
		case line == "":
			gap = cur != nil && cur.Body != ""
			continue
		case strings.HasPrefix(line, "## "):
			flush()
			cur = &Block{Kind: KindSection, Title: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			continue
		case strings.HasPrefix(line, "!["):
			if m := reImageLine.FindStringSubmatch(line); m != nil {
				if cur == nil {
					cur = &Block{Kind: KindSection}
				}
				cur.Image = m[2]
				cur.ImageCaption = m[1]
				if cur.Kind == KindText {
					cur.Kind = KindSection
				}
				gap = false
				continue
			}
		case strings.HasPrefix(line, "["+audioIcon):
			if m := reAudioLine.FindStringSubmatch(line); m != nil {
				if cur == nil || cur.Kind != KindPDF {
					flush()
					cur = &Block{Kind: KindPDF}
				}
				cur.Attachments = append(cur.Attachments, Attachment{
					Name: strings.TrimSpace(m[1]),
					Type: AudioMIME,
				})
				gap = false
				continue
			}
		}
		text := unescapeLine(line)
		switch {
		case cur == nil:
			cur = &Block{Kind: KindText, Body: text}
		case cur.Body == "":
			cur.Body = text
		case gap:
			cur.Body += "\n\n" + text
		default:
			cur.Body += "\n" + text
		}
		gap = false
	}
	flush()
	return out
}

// unescapeLine drops the escape mark escapeLines added.
func unescapeLine(line string) string {
	if rest, ok := strings.CutPrefix(line, escapeMark); ok && needsEscape(rest) {
		return rest
	}
	return line
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
