package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/train"
	"gopkg.in/yaml.v3"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// Seed is a hand written chain source. Nodes give explicit weights; phrases are trained
// like corpus lines.
type Seed struct {
	Depth   int        `yaml:"depth"`
	Nodes   []SeedNode `yaml:"nodes"`
	Phrases []string   `yaml:"phrases"`
}

// SeedNode is one context with its weighted continuations.
type SeedNode struct {
	Context []string          `yaml:"context"`
	Next    map[string]uint64 `yaml:"next"`
}

// ParseSeed decodes a YAML seed table. Unknown fields are rejected.
func ParseSeed(r io.Reader) (*Seed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Seed
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if s.Depth < 0 {
		return nil, fmt.Errorf("invalid seed depth %d", s.Depth)
	}
	for i, node := range s.Nodes {
		if !chain.Context(node.Context).Valid() {
			return nil, fmt.Errorf("seed node %d context %q: %w", i, node.Context, ErrInvalidToken)
		}
		for tok := range node.Next {
			if !chain.ValidToken(tok) {
				return nil, fmt.Errorf("seed node %d token %q: %w", i, tok, ErrInvalidToken)
			}
		}
	}
	return &s, nil
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed %s: %w", path, err)
	}
	defer f.Close()

	s, err := ParseSeed(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DefaultSeed returns the built-in seed table.
func DefaultSeed() *Seed {
	s, err := ParseSeed(bytes.NewReader(defaultSeed))
	if err != nil {
		panic("store: broken default seed: " + err.Error())
	}
	return s
}

// Apply adds the seed to pc. Phrases are trained at the seed's own depth when it declares
// one, otherwise at depth. It returns the number of node entries plus phrase words added.
func (s *Seed) Apply(pc *chain.PredictorChain, depth int, foldCase bool) int {
	n := 0
	for _, node := range s.Nodes {
		ctx := chain.Context(node.Context)
		if foldCase {
			ctx = foldContext(ctx)
		}
		for tok, w := range node.Next {
			if foldCase {
				tok = strings.ToLower(tok)
			}
			pc.ObserveWeight(ctx, tok, chain.Weight(w))
			n++
		}
	}

	if s.Depth > 0 {
		depth = s.Depth
	}
	tr := train.New(pc, depth, train.WithFoldCase(foldCase))
	for _, phrase := range s.Phrases {
		n += tr.Learn(phrase)
	}
	return n
}

func foldContext(ctx chain.Context) chain.Context {
	out := make(chain.Context, len(ctx))
	for i, tok := range ctx {
		out[i] = strings.ToLower(tok)
	}
	return out
}
