package chain

import "strings"

// Token is a word or word fragment. Comparison is exact, byte for byte.
type Token = string

// Weight is the accumulated observation count of a candidate. Stored weights are never zero.
type Weight uint64

// ContextKey is the map key of a Context: its tokens joined by the unit separator.
type ContextKey string

const keySep = "\x1f"

// Context is the ordered run of tokens preceding the insertion point, oldest first.
type Context []Token

// Key returns the lookup key for c. The empty context maps to "".
func (c Context) Key() ContextKey {
	return ContextKey(strings.Join(c, keySep))
}

// ValidToken reports whether tok can be stored. Tokens must not contain the key separator,
// or {"a\x1fb"} and {"a", "b"} would share a key.
func ValidToken(tok Token) bool {
	return !strings.Contains(tok, keySep)
}

// Valid reports whether every token of c is valid.
func (c Context) Valid() bool {
	for _, tok := range c {
		if !ValidToken(tok) {
			return false
		}
	}
	return true
}

// Tail returns the last n tokens of c, or all of them if c is shorter.
func (c Context) Tail(n int) Context {
	if n <= 0 {
		return Context{}
	}
	if n >= len(c) {
		return c
	}
	return c[len(c)-n:]
}

// Clone returns a copy that does not share storage with c.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	copy(out, c)
	return out
}

// String renders the context space separated, for logs.
func (c Context) String() string {
	return strings.Join(c, " ")
}

// Context splits the key back into its tokens.
func (k ContextKey) Context() Context {
	if k == "" {
		return Context{}
	}
	return strings.Split(string(k), keySep)
}
