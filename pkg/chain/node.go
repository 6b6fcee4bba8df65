package chain

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ChainNode holds the weighted next-token candidates seen after one Context.
// Candidates live in a patricia trie so a prefix restricted scan is a subtree visit.
type ChainNode struct {
	context    Context
	candidates *patricia.Trie
	size       int
	total      Weight
}

func newChainNode(ctx Context) *ChainNode {
	return &ChainNode{
		context:    ctx.Clone(),
		candidates: patricia.NewTrie(),
	}
}

// add increments token by w, inserting it if absent.
func (n *ChainNode) add(token Token, w Weight) {
	key := patricia.Prefix(token)
	if item := n.candidates.Get(key); item != nil {
		n.candidates.Set(key, item.(Weight)+w)
	} else {
		n.candidates.Insert(key, w)
		n.size++
	}
	n.total += w
}

// weight returns the stored weight of token, zero when absent.
func (n *ChainNode) weight(token Token) Weight {
	if item := n.candidates.Get(patricia.Prefix(token)); item != nil {
		return item.(Weight)
	}
	return 0
}

// Context returns a copy of the node's context.
func (n *ChainNode) Context() Context {
	return n.context.Clone()
}

// Len is the number of distinct candidates.
func (n *ChainNode) Len() int {
	return n.size
}

// Total is the sum of all candidate weights.
func (n *ChainNode) Total() Weight {
	return n.total
}

// Candidates copies the candidate set into a map.
func (n *ChainNode) Candidates() map[Token]Weight {
	out := make(map[Token]Weight, n.size)
	err := n.candidates.Visit(func(p patricia.Prefix, item patricia.Item) error {
		out[string(p)] = item.(Weight)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting candidates of %q: %v", n.context, err)
	}
	return out
}

// top returns the heaviest candidate that strictly extends prefix.
// Equal weights resolve to the byte-order smaller token.
func (n *ChainNode) top(prefix string) (Token, Weight, bool) {
	var (
		best  Token
		bestW Weight
		found bool
	)

	visit := func(p patricia.Prefix, item patricia.Item) error {
		token := string(p)
		if len(token) <= len(prefix) || !strings.HasPrefix(token, prefix) {
			return nil
		}
		w := item.(Weight)
		if !found || w > bestW || (w == bestW && token < best) {
			best, bestW, found = token, w, true
		}
		return nil
	}

	var err error
	if prefix == "" {
		err = n.candidates.Visit(visit)
	} else {
		err = n.candidates.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	if err != nil {
		log.Errorf("Error visiting candidates of %q: %v", n.context, err)
		return "", 0, false
	}
	return best, bestW, found
}
