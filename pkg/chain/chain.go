// Package chain is the context-chain model behind predictions: it maps a bounded run of
// preceding tokens to weighted candidate next tokens and resolves queries with backoff
// to shorter contexts.
package chain

import (
	"sort"
	"sync"
)

// Candidate is a resolved next token. Depth is the length of the context it was found under.
type Candidate struct {
	Token  Token
	Weight Weight
	Depth  int
}

// Stats summarizes a chain.
type Stats struct {
	Nodes       int
	Entries     int
	TotalWeight Weight
	MaxDepth    int
}

// PredictorChain owns every ChainNode, keyed by context.
// Writes are serialized against reads by an RWMutex, so Observe never interleaves
// with an in-flight lookup.
type PredictorChain struct {
	nodes    map[ContextKey]*ChainNode
	maxDepth int
	mu       sync.RWMutex
}

// New creates an empty chain.
func New() *PredictorChain {
	return &PredictorChain{
		nodes: make(map[ContextKey]*ChainNode),
	}
}

// Observe records one occurrence of next after ctx.
func (pc *PredictorChain) Observe(ctx Context, next Token) {
	pc.ObserveWeight(ctx, next, 1)
}

// ObserveWeight adds w to next under ctx, creating the node if needed.
// Weights accumulate. An empty token, a zero weight, or a token holding the key separator
// is ignored.
func (pc *PredictorChain) ObserveWeight(ctx Context, next Token, w Weight) {
	if next == "" || w == 0 || !ValidToken(next) || !ctx.Valid() {
		return
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	key := ctx.Key()
	node, ok := pc.nodes[key]
	if !ok {
		node = newChainNode(ctx)
		pc.nodes[key] = node
		if len(ctx) > pc.maxDepth {
			pc.maxDepth = len(ctx)
		}
	}
	node.add(next, w)
}

// Lookup returns a copy of the candidates stored for exactly ctx.
func (pc *PredictorChain) Lookup(ctx Context) (map[Token]Weight, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if !ctx.Valid() {
		return nil, false
	}
	node, ok := pc.nodes[ctx.Key()]
	if !ok || node.Len() == 0 {
		return nil, false
	}
	return node.Candidates(), true
}

// Weight returns the weight of next under exactly ctx.
func (pc *PredictorChain) Weight(ctx Context, next Token) Weight {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if !ctx.Valid() {
		return 0
	}
	if node, ok := pc.nodes[ctx.Key()]; ok {
		return node.weight(next)
	}
	return 0
}

// ResolveWithBackoff returns the top candidate of the longest suffix of ctx that has a node.
// Contexts are shortened from the front, down to the empty context.
func (pc *PredictorChain) ResolveWithBackoff(ctx Context) (Candidate, bool) {
	return pc.ResolvePrefix(ctx, "")
}

// ResolvePrefix backs off like ResolveWithBackoff but only considers tokens that start with
// prefix and are longer than it. A level without such a token counts as a miss.
func (pc *PredictorChain) ResolvePrefix(ctx Context, prefix string) (Candidate, bool) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	start := len(ctx)
	if start > pc.maxDepth {
		start = pc.maxDepth
	}
	for depth := start; depth >= 0; depth-- {
		tail := ctx.Tail(depth)
		if !tail.Valid() {
			continue
		}
		node, ok := pc.nodes[tail.Key()]
		if !ok {
			continue
		}
		if token, w, found := node.top(prefix); found {
			return Candidate{Token: token, Weight: w, Depth: depth}, true
		}
	}
	return Candidate{}, false
}

// Len returns the number of nodes.
func (pc *PredictorChain) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.nodes)
}

// MaxDepth is the longest context observed so far.
func (pc *PredictorChain) MaxDepth() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.maxDepth
}

// Stats reports node and weight totals.
func (pc *PredictorChain) Stats() Stats {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	st := Stats{Nodes: len(pc.nodes), MaxDepth: pc.maxDepth}
	for _, node := range pc.nodes {
		st.Entries += node.Len()
		st.TotalWeight += node.Total()
	}
	return st
}

// Each calls fn for every node in key order with copies of its context and candidates.
// fn must not call back into the chain's mutators.
func (pc *PredictorChain) Each(fn func(ctx Context, candidates map[Token]Weight)) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	keys := make([]ContextKey, 0, len(pc.nodes))
	for k := range pc.nodes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		node := pc.nodes[k]
		fn(node.Context(), node.Candidates())
	}
}
