package editor

import (
	"math/rand"
	"testing"

	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferInsertAndDelete(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.DeleteBackward(), "backspace at start is a no-op")

	b.Insert("ab")
	b.Insert("c")
	assert.Equal(t, "abc", b.Text())
	assert.Equal(t, 3, b.Pos())

	require.True(t, b.DeleteBackward())
	assert.Equal(t, "ab", b.Text())
	assert.Equal(t, 2, b.Pos())

	b.Insert("")
	assert.Equal(t, "ab", b.Text())
}

func TestBufferGraphemes(t *testing.T) {
	tests := []struct {
		name string
		text string
		len  int
	}{
		{"ascii", "abc", 3},
		{"precomposed", "\u00e9", 1},
		{"combining mark", "e\u0301", 1},
		{"emoji with modifier", "\U0001F44D\U0001F3FD", 1},
		{"flag", "\U0001F1EF\U0001F1F5", 1},
		{"cjk", "日本", 2},
		{"zwj family", "\U0001F468\u200d\U0001F469\u200d\U0001F467", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferWithText(tt.text)
			assert.Equal(t, tt.len, b.Len())
			assert.Equal(t, tt.len, b.Pos())
			assert.Equal(t, tt.text, b.Text())
		})
	}
}

func TestBufferCombiningMarkJoinsBase(t *testing.T) {
	b := NewBuffer()
	b.Insert("e")
	b.Insert("\u0301")
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 1, b.Pos())

	require.True(t, b.DeleteBackward())
	assert.Equal(t, "", b.Text(), "one backspace removes the whole cluster")
}

func TestBufferMidlineInsert(t *testing.T) {
	b := NewBufferWithText("ace")
	b.SetPos(1)
	b.Insert("b")
	assert.Equal(t, "abce", b.Text())
	assert.Equal(t, 2, b.Pos())
	assert.Equal(t, "ab", b.TextBeforeCursor())
	assert.Equal(t, "ce", b.TextAfterCursor())

	b.SetPos(-4)
	assert.Equal(t, 0, b.Pos())
	b.SetPos(99)
	assert.Equal(t, 4, b.Pos())
}

func TestBufferEndsWithSpace(t *testing.T) {
	assert.False(t, NewBuffer().EndsWithSpace())
	assert.False(t, NewBufferWithText("never").EndsWithSpace())
	assert.True(t, NewBufferWithText("never ").EndsWithSpace())
	assert.True(t, NewBufferWithText("never\u3000").EndsWithSpace())
}

func TestBufferMalformedInput(t *testing.T) {
	b := NewBufferWithText("ab\xff")
	assert.Equal(t, "ab�", b.Text())
	assert.Equal(t, 3, b.Len())
}

// The cursor always stays inside the buffer and always sits on a cluster boundary.
func TestBufferCursorInvariant(t *testing.T) {
	pieces := []string{"a", "b", " ", "\u00e9", "e", "\u0301", "\U0001F44D", "\U0001F3FD", "日", "\u200d", "\xff", ","}
	rng := rand.New(rand.NewSource(7))

	b := NewBuffer()
	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			b.DeleteBackward()
		case 1:
			b.SetPos(rng.Intn(b.Len()+3) - 1)
		default:
			b.Insert(pieces[rng.Intn(len(pieces))])
		}

		require.GreaterOrEqual(t, b.Pos(), 0)
		require.LessOrEqual(t, b.Pos(), b.Len())
		require.Equal(t, b.Text(), b.TextBeforeCursor()+b.TextAfterCursor())
		require.Equal(t, uniseg.GraphemeClusterCount(b.Text()), b.Len())
	}
}
