// Package predict turns the text typed so far into a single best continuation: either the
// rest of the word being typed or the next whole word.
package predict

import (
	"fmt"
	"strings"

	"github.com/bastiangx/yosoku/pkg/chain"
)

// Kind tells how a Prediction attaches to the input.
type Kind int

const (
	// KindWord appends a new word after a separator.
	KindWord Kind = iota
	// KindPartial completes the word currently being typed.
	KindPartial
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Prediction is a suggested continuation of the input.
type Prediction struct {
	Kind Kind
	Text string
}

// Word builds a whole-word prediction.
func Word(text string) Prediction {
	return Prediction{Kind: KindWord, Text: text}
}

// Partial builds a completion of the word in progress.
func Partial(suffix string) Prediction {
	return Prediction{Kind: KindPartial, Text: suffix}
}

func (p Prediction) String() string {
	switch p.Kind {
	case KindWord:
		return fmt.Sprintf("Word(%q)", p.Text)
	case KindPartial:
		return fmt.Sprintf("Partial(%q)", p.Text)
	default:
		return fmt.Sprintf("Prediction(%d, %q)", p.Kind, p.Text)
	}
}

// Resolver is the read side of a chain.PredictorChain.
type Resolver interface {
	ResolveWithBackoff(ctx chain.Context) (chain.Candidate, bool)
	ResolvePrefix(ctx chain.Context, prefix string) (chain.Candidate, bool)
}

// Predictor queries a chain with at most depth words of context.
// It keeps no state between calls, so it is safe to call on every keystroke.
type Predictor struct {
	chain    Resolver
	depth    int
	foldCase bool
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithFoldCase lower-cases context and the word in progress before lookup.
// The chain must have been built with the same folding.
func WithFoldCase(fold bool) Option {
	return func(p *Predictor) {
		p.foldCase = fold
	}
}

// New creates a Predictor. A negative depth is treated as 0, which ranks purely by
// global frequency.
func New(c Resolver, depth int, opts ...Option) *Predictor {
	if depth < 0 {
		depth = 0
	}
	p := &Predictor{chain: c, depth: depth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Depth is the maximum number of context words used.
func (p *Predictor) Depth() int {
	return p.depth
}

// Predict returns the best continuation of input, if the chain has one.
func (p *Predictor) Predict(input string) (Prediction, bool) {
	if p.chain == nil {
		return Prediction{}, false
	}

	words, inWord := Segment(input)
	if p.foldCase {
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
	}

	if inWord {
		last := words[len(words)-1]
		ctx := chain.Context(words[:len(words)-1]).Tail(p.depth)
		cand, ok := p.chain.ResolvePrefix(ctx, last)
		if !ok || !strings.HasPrefix(cand.Token, last) || len(cand.Token) <= len(last) {
			return Prediction{}, false
		}
		return Partial(cand.Token[len(last):]), true
	}

	ctx := chain.Context(words).Tail(p.depth)
	cand, ok := p.chain.ResolveWithBackoff(ctx)
	if !ok {
		return Prediction{}, false
	}
	return Word(cand.Token), true
}
