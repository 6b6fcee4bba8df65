package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bastiangx/yosoku/pkg/editor"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const (
	clearToEOL = "\x1b[K"
	crlf       = "\r\n"
)

// GhostStyle builds the suggestion style from a color (ANSI index or hex) and italics.
func GhostStyle(color string, italic bool) lipgloss.Style {
	style := lipgloss.NewStyle().Italic(italic)
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	}
	return style
}

// LineRenderer draws editor render ops as ANSI on a single terminal line.
// Cursor offsets are measured in display columns, so wide and combining graphemes line up.
type LineRenderer struct {
	w      *bufio.Writer
	prompt string
	ghost  lipgloss.Style
}

// NewLineRenderer writes to w, starting every line with prompt.
func NewLineRenderer(w io.Writer, prompt string, ghost lipgloss.Style) *LineRenderer {
	return &LineRenderer{w: bufio.NewWriter(w), prompt: prompt, ghost: ghost}
}

// Render writes ops and flushes once at the end.
func (lr *LineRenderer) Render(ops []editor.RenderOp) error {
	for _, op := range ops {
		switch op.Kind {
		case editor.OpReplaceLine:
			_, after := splitClusters(op.Text, op.Cursor)
			lr.w.WriteString("\r" + lr.prompt + op.Text + clearToEOL)
			lr.moveLeft(runewidth.StringWidth(after))

		case editor.OpShowGhost:
			lr.w.WriteString(lr.ghost.Render(op.Text))
			lr.moveLeft(runewidth.StringWidth(op.Text))

		case editor.OpClearGhost:
			lr.w.WriteString(clearToEOL)
		}
	}
	return lr.w.Flush()
}

// Newline ends the current line. Raw mode needs the explicit carriage return.
func (lr *LineRenderer) Newline() error {
	lr.w.WriteString(crlf)
	return lr.w.Flush()
}

func (lr *LineRenderer) moveLeft(cols int) {
	if cols > 0 {
		fmt.Fprintf(lr.w, "\x1b[%dD", cols)
	}
}

// splitClusters splits text after its first n grapheme clusters.
func splitClusters(text string, n int) (string, string) {
	if n <= 0 {
		return "", text
	}
	rest := text
	state := -1
	for i := 0; i < n && len(rest) > 0; i++ {
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return text[:len(text)-len(rest)], rest
}
