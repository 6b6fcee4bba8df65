package cli

import (
	"bufio"
	"io"
	"unicode/utf8"

	"github.com/bastiangx/yosoku/pkg/editor"
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyCtrlH     = 0x08
	keyTab       = '\t'
	keyLF        = '\n'
	keyCR        = '\r'
	keyEscape    = 0x1b
	keyDelete    = 0x7f
	keyReplaceCh = "\uFFFD"
)

// KeyDecoder turns terminal bytes into editor keys.
type KeyDecoder struct {
	r *bufio.Reader
}

// NewKeyDecoder reads keys from r.
func NewKeyDecoder(r io.Reader) *KeyDecoder {
	return &KeyDecoder{r: bufio.NewReader(r)}
}

// ReadKey blocks until one key is available.
//
// A lone ESC is told apart from an escape sequence by whether more bytes arrived with it:
// terminals write a whole sequence in one go. Piped input has no such timing, so in a
// script an ESC only cancels when it is the last byte buffered or is followed by another
// ESC; ESC followed by any other byte is read as a single Alt+key, which is Other.
func (d *KeyDecoder) ReadKey() (editor.Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return editor.Key{}, err
	}

	switch b {
	case keyCR:
		if d.r.Buffered() > 0 {
			if next, _ := d.r.Peek(1); len(next) == 1 && next[0] == keyLF {
				d.r.ReadByte()
			}
		}
		return editor.Confirm, nil
	case keyLF:
		return editor.Confirm, nil
	case keyTab:
		return editor.Accept, nil
	case keyDelete, keyCtrlH:
		return editor.Backspace, nil
	case keyCtrlC, keyCtrlD:
		return editor.Cancel, nil
	case keyEscape:
		return d.readEscape()
	}

	if b < 0x20 {
		return editor.Other, nil
	}
	if b < utf8.RuneSelf {
		return editor.Char(string(rune(b))), nil
	}

	if err := d.r.UnreadByte(); err != nil {
		return editor.Key{}, err
	}
	r, size, err := d.r.ReadRune()
	if err != nil {
		return editor.Key{}, err
	}
	if r == utf8.RuneError && size == 1 {
		return editor.Char(keyReplaceCh), nil
	}
	return editor.Char(string(r)), nil
}

// readEscape consumes what follows an ESC byte.
func (d *KeyDecoder) readEscape() (editor.Key, error) {
	if d.r.Buffered() == 0 {
		return editor.Cancel, nil
	}

	next, err := d.r.ReadByte()
	if err != nil {
		return editor.Cancel, nil
	}
	switch next {
	case '[':
		// CSI: parameter and intermediate bytes up to a final byte in 0x40..0x7e.
		for {
			c, err := d.r.ReadByte()
			if err != nil {
				return editor.Other, nil
			}
			if c >= 0x40 && c <= 0x7e {
				return editor.Other, nil
			}
		}
	case 'O':
		// SS3: exactly one more byte.
		if _, err := d.r.ReadByte(); err != nil {
			return editor.Other, nil
		}
		return editor.Other, nil
	case keyEscape:
		d.r.UnreadByte()
		return editor.Cancel, nil
	default:
		// Alt+key.
		if next >= utf8.RuneSelf {
			d.r.UnreadByte()
			d.r.ReadRune()
		}
		return editor.Other, nil
	}
}
