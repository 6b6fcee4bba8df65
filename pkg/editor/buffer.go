package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Buffer holds the edited line as grapheme clusters. The cursor is an index into the
// clusters, always within [0, Len()].
type Buffer struct {
	clusters []string
	pos      int
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferWithText creates a buffer holding text with the cursor at its end.
func NewBufferWithText(text string) *Buffer {
	b := &Buffer{clusters: graphemes(text)}
	b.pos = len(b.clusters)
	return b
}

func graphemes(text string) []string {
	text = Sanitize(text)
	var out []string
	state := -1
	var cluster string
	for len(text) > 0 {
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, cluster)
	}
	return out
}

// Text returns the whole line.
func (b *Buffer) Text() string {
	return strings.Join(b.clusters, "")
}

// TextBeforeCursor returns the line up to the cursor.
func (b *Buffer) TextBeforeCursor() string {
	return strings.Join(b.clusters[:b.pos], "")
}

// TextAfterCursor returns the line from the cursor on.
func (b *Buffer) TextAfterCursor() string {
	return strings.Join(b.clusters[b.pos:], "")
}

// Len is the length in grapheme clusters.
func (b *Buffer) Len() int {
	return len(b.clusters)
}

// Pos is the cursor offset in grapheme clusters.
func (b *Buffer) Pos() int {
	return b.pos
}

// SetPos moves the cursor, clamped to [0, Len()].
func (b *Buffer) SetPos(pos int) {
	b.pos = clamp(pos, 0, len(b.clusters))
}

// Insert puts text at the cursor and moves the cursor past it.
// The line is re-segmented so a combining mark joins the cluster before it.
func (b *Buffer) Insert(text string) {
	if text == "" {
		return
	}
	before := b.TextBeforeCursor() + text
	after := b.TextAfterCursor()

	b.clusters = graphemes(before + after)
	b.pos = clamp(uniseg.GraphemeClusterCount(Sanitize(before)), 0, len(b.clusters))
}

// DeleteBackward removes the cluster before the cursor. It reports whether anything was removed.
// The remaining text is re-segmented since its neighbours may now join into one cluster.
func (b *Buffer) DeleteBackward() bool {
	if b.pos == 0 {
		return false
	}
	before := strings.Join(b.clusters[:b.pos-1], "")
	after := b.TextAfterCursor()

	b.clusters = graphemes(before + after)
	b.pos = clamp(uniseg.GraphemeClusterCount(before), 0, len(b.clusters))
	return true
}

// EndsWithSpace reports whether the text before the cursor ends in whitespace.
func (b *Buffer) EndsWithSpace() bool {
	if b.pos == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(b.clusters[b.pos-1])
	return unicode.IsSpace(r)
}

// Sanitize replaces ill-formed UTF-8 with U+FFFD.
func Sanitize(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, string(utf8.RuneError))
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
