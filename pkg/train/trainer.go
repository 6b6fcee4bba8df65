// Package train feeds text into a chain. Every word is observed under each of its
// preceding contexts up to the configured depth, including the empty one, so a chain built
// here can always back off to global frequency.
package train

import (
	"bufio"
	"io"
	"strings"

	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/predict"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single corpus line. Longer lines fail with bufio.ErrTooLong.
const maxLineSize = 1 << 20

// Observer is the write side of a chain.PredictorChain.
type Observer interface {
	Observe(ctx chain.Context, next chain.Token)
}

// Trainer turns text into observations.
type Trainer struct {
	chain    Observer
	depth    int
	foldCase bool
	seen     *bloom.BloomFilter
	skipped  int
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithFoldCase lower-cases every word before it is observed.
func WithFoldCase(fold bool) Option {
	return func(t *Trainer) {
		t.foldCase = fold
	}
}

// WithSingletonFilter drops n-grams seen only once. The first sighting of a pair is only
// recorded in a bloom filter sized for n pairs at false positive rate fp; later sightings
// are observed. A false positive lets a singleton through, which is harmless.
func WithSingletonFilter(n uint, fp float64) Option {
	return func(t *Trainer) {
		if n == 0 || fp <= 0 || fp >= 1 {
			return
		}
		t.seen = bloom.NewWithEstimates(n, fp)
	}
}

// New creates a Trainer observing into c with at most depth words of context.
func New(c Observer, depth int, opts ...Option) *Trainer {
	if depth < 0 {
		depth = 0
	}
	t := &Trainer{chain: c, depth: depth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Depth is the longest context observed.
func (t *Trainer) Depth() int {
	return t.depth
}

// Skipped is the number of first sightings held back by the singleton filter.
func (t *Trainer) Skipped() int {
	return t.skipped
}

// Learn observes every word of text and returns how many words it saw.
func (t *Trainer) Learn(text string) int {
	words := predict.Words(text)
	if t.foldCase {
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
	}

	for i, w := range words {
		for k := 0; k <= t.depth && k <= i; k++ {
			ctx := chain.Context(words[i-k : i])
			if !t.admit(ctx, w) {
				continue
			}
			t.chain.Observe(ctx, w)
		}
	}
	return len(words)
}

// LearnReader learns each line of r as an independent text.
func (t *Trainer) LearnReader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	total, lines := 0, 0
	for scanner.Scan() {
		total += t.Learn(scanner.Text())
		lines++
	}
	if err := scanner.Err(); err != nil {
		return total, err
	}
	log.Debugf("learned %d words from %d lines (%d singletons held back)", total, lines, t.skipped)
	return total, nil
}

func (t *Trainer) admit(ctx chain.Context, next chain.Token) bool {
	if t.seen == nil {
		return true
	}
	key := []byte(string(ctx.Key()) + "\x1e" + next)
	if t.seen.TestOrAdd(key) {
		return true
	}
	t.skipped++
	return false
}
