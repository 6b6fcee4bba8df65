package editor

import "fmt"

// KeyKind is the abstract key event a terminal adapter produces.
type KeyKind int

const (
	// KeyOther is any key the editor does not act on.
	KeyOther KeyKind = iota
	KeyChar
	KeyBackspace
	KeyAccept
	KeyConfirm
	KeyCancel
)

// String returns the name of the key kind.
func (k KeyKind) String() string {
	switch k {
	case KeyOther:
		return "Other"
	case KeyChar:
		return "Char"
	case KeyBackspace:
		return "Backspace"
	case KeyAccept:
		return "Accept"
	case KeyConfirm:
		return "Confirm"
	case KeyCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

// Key is one input event. Grapheme is set only for KeyChar.
type Key struct {
	Kind     KeyKind
	Grapheme string
}

// Char builds a character key.
func Char(g string) Key {
	return Key{Kind: KeyChar, Grapheme: g}
}

func (k Key) String() string {
	if k.Kind == KeyChar {
		return fmt.Sprintf("Char(%q)", k.Grapheme)
	}
	return k.Kind.String()
}

// Common keys.
var (
	Backspace = Key{Kind: KeyBackspace}
	Accept    = Key{Kind: KeyAccept}
	Confirm   = Key{Kind: KeyConfirm}
	Cancel    = Key{Kind: KeyCancel}
	Other     = Key{Kind: KeyOther}
)

// OpKind is a render instruction type.
type OpKind int

const (
	// OpReplaceLine redraws the line with Text and puts the cursor at Cursor clusters.
	OpReplaceLine OpKind = iota
	// OpShowGhost draws Text as a suggestion starting at the cursor without moving it.
	OpShowGhost
	// OpClearGhost removes any suggestion drawn after the cursor.
	OpClearGhost
)

func (k OpKind) String() string {
	switch k {
	case OpReplaceLine:
		return "ReplaceLine"
	case OpShowGhost:
		return "ShowGhost"
	case OpClearGhost:
		return "ClearGhost"
	default:
		return "Unknown"
	}
}

// RenderOp tells the terminal adapter what to draw. Column math is left to the adapter,
// which must measure display width rather than count clusters.
type RenderOp struct {
	Kind   OpKind
	Text   string
	Cursor int
}
