package predict

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Sanitize replaces ill-formed UTF-8 with U+FFFD. The replacement character is never part
// of a word, so a malformed unit behaves as a separator.
func Sanitize(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, string(utf8.RuneError))
}

// Segment splits text into words following Unicode word boundaries (UAX #29).
// Segments without a letter or number (spaces, punctuation) are dropped.
// inWord reports whether text ends inside a word, i.e. the last word is still being typed.
func Segment(text string) (words []string, inWord bool) {
	text = Sanitize(text)
	state := -1
	var segment string
	for len(text) > 0 {
		segment, text, state = uniseg.FirstWordInString(text, state)
		if isWord(segment) {
			words = append(words, segment)
			inWord = true
		} else {
			inWord = false
		}
	}
	return words, inWord
}

// Words is Segment without the trailing-word flag.
func Words(text string) []string {
	words, _ := Segment(text)
	return words
}

func isWord(segment string) bool {
	for _, r := range segment {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
