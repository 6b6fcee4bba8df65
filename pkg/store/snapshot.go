package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/yosoku/internal/utils"
	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	snapshotMagic   = "yosoku-chain"
	snapshotVersion = 1
)

// Meta is the training setup recorded with a snapshot.
type Meta struct {
	Depth    int
	FoldCase bool
}

type snapshot struct {
	Magic    string         `msgpack:"magic"`
	Version  int            `msgpack:"version"`
	Depth    int            `msgpack:"depth"`
	FoldCase bool           `msgpack:"fold_case"`
	Nodes    []snapshotNode `msgpack:"nodes"`
}

type snapshotNode struct {
	Context    []string          `msgpack:"context"`
	Candidates map[string]uint64 `msgpack:"candidates"`
}

// Encode writes pc to w as a msgpack snapshot. Nodes are written in key order and map
// keys sorted, so the same chain always encodes to the same bytes.
func Encode(w io.Writer, pc *chain.PredictorChain, meta Meta) error {
	snap := snapshot{
		Magic:    snapshotMagic,
		Version:  snapshotVersion,
		Depth:    meta.Depth,
		FoldCase: meta.FoldCase,
		Nodes:    make([]snapshotNode, 0, pc.Len()),
	}
	pc.Each(func(ctx chain.Context, candidates map[chain.Token]chain.Weight) {
		node := snapshotNode{
			Context:    []string(ctx),
			Candidates: make(map[string]uint64, len(candidates)),
		}
		for tok, w := range candidates {
			node.Candidates[tok] = uint64(w)
		}
		snap.Nodes = append(snap.Nodes, node)
	})

	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*chain.PredictorChain, Meta, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, Meta{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Magic != snapshotMagic {
		return nil, Meta{}, ErrBadMagic
	}
	if snap.Version > snapshotVersion || snap.Version < 1 {
		return nil, Meta{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}

	pc := chain.New()
	for _, node := range snap.Nodes {
		ctx := chain.Context(node.Context)
		for tok, w := range node.Candidates {
			pc.ObserveWeight(ctx, tok, chain.Weight(w))
		}
	}
	return pc, Meta{Depth: snap.Depth, FoldCase: snap.FoldCase}, nil
}

// SaveSnapshot writes pc to path, replacing any existing file only once the write succeeded.
func SaveSnapshot(path string, pc *chain.PredictorChain, meta Meta) error {
	var buf bytes.Buffer
	if err := Encode(&buf, pc, meta); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", path, err)
	}
	log.Debugf("Saved snapshot %s (%s nodes, %s bytes)", path,
		utils.FormatCount(pc.Len()), utils.FormatCount(buf.Len()))
	return nil
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string) (*chain.PredictorChain, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	pc, meta, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("%s: %w", path, err)
	}
	return pc, meta, nil
}
