// Package store reads and writes the sources a chain is built from: msgpack snapshots,
// YAML seed tables and plain text corpora.
package store

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/bastiangx/yosoku/internal/utils"
	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/train"
	"github.com/charmbracelet/log"
)

// Loader builds one chain from any mix of sources.
type Loader struct {
	// Depth is the longest context trained from seeds and corpora.
	Depth int
	// FoldCase lower-cases everything trained. Snapshots are taken as they are.
	FoldCase bool
	// MinCount drops candidates whose final weight is below it. 0 and 1 keep everything.
	MinCount uint64
	// BloomCapacity and BloomFP enable the singleton filter for corpora when both are set.
	BloomCapacity uint
	BloomFP       float64
}

// LoadStats summarises a Load.
type LoadStats struct {
	Sources int
	Words   int
	Pruned  int
	// Skipped counts first sightings held back by the singleton filter.
	Skipped int
	Elapsed time.Duration
}

// Load builds a chain from paths. Directories contribute every supported file they hold.
// With no paths the built-in seed is used.
func (l Loader) Load(paths ...string) (*chain.PredictorChain, LoadStats, error) {
	start := time.Now()
	pc := chain.New()
	var stats LoadStats

	if len(paths) == 0 {
		log.Debug("No chain sources configured, using the built-in seed")
		stats.Words = DefaultSeed().Apply(pc, l.Depth, l.FoldCase)
		stats.Sources = 1
		stats.Elapsed = time.Since(start)
		return pc, stats, nil
	}

	files, err := expandSources(paths)
	if err != nil {
		return nil, stats, err
	}

	var opts []train.Option
	opts = append(opts, train.WithFoldCase(l.FoldCase))
	if l.BloomCapacity > 0 && l.BloomFP > 0 {
		opts = append(opts, train.WithSingletonFilter(l.BloomCapacity, l.BloomFP))
	}
	tr := train.New(pc, l.Depth, opts...)

	for _, path := range files {
		n, err := l.loadOne(pc, tr, path)
		if err != nil {
			return nil, stats, err
		}
		stats.Sources++
		stats.Words += n
	}

	stats.Skipped = tr.Skipped()

	if l.MinCount > 1 {
		pc, stats.Pruned = Prune(pc, chain.Weight(l.MinCount))
	}
	stats.Elapsed = time.Since(start)

	log.Debugf("Loaded %d sources: %s words, %s nodes, %s pruned, %s singletons skipped in %v",
		stats.Sources, utils.FormatCount(stats.Words), utils.FormatCount(pc.Len()),
		utils.FormatCount(stats.Pruned), utils.FormatCount(stats.Skipped), stats.Elapsed)
	return pc, stats, nil
}

func (l Loader) loadOne(pc *chain.PredictorChain, tr *train.Trainer, path string) (int, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return 0, err
	}
	log.Debugf("Loading %s as %s", path, format)

	switch format {
	case FormatSnapshot:
		snap, meta, err := LoadSnapshot(path)
		if err != nil {
			return 0, err
		}
		if meta.FoldCase != l.FoldCase {
			log.Warnf("Snapshot %s was built with fold_case=%v, loading with fold_case=%v", path, meta.FoldCase, l.FoldCase)
		}
		return Merge(pc, snap), nil

	case FormatSeed:
		seed, err := LoadSeed(path)
		if err != nil {
			return 0, err
		}
		return seed.Apply(pc, l.Depth, l.FoldCase), nil

	case FormatCorpus:
		f, err := os.Open(path)
		if err != nil {
			return 0, fmt.Errorf("failed to open corpus %s: %w", path, err)
		}
		defer f.Close()
		n, err := tr.LearnReader(bufio.NewReader(f))
		if err != nil {
			return n, fmt.Errorf("failed to read corpus %s: %w", path, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Merge adds every entry of src to dst and returns the number of entries copied.
func Merge(dst, src *chain.PredictorChain) int {
	n := 0
	src.Each(func(ctx chain.Context, candidates map[chain.Token]chain.Weight) {
		for tok, w := range candidates {
			dst.ObserveWeight(ctx, tok, w)
			n++
		}
	})
	return n
}

// Prune returns a copy of pc without candidates weighing less than floor, and how many were
// dropped. Contexts left with no candidates disappear.
func Prune(pc *chain.PredictorChain, floor chain.Weight) (*chain.PredictorChain, int) {
	out := chain.New()
	dropped := 0
	pc.Each(func(ctx chain.Context, candidates map[chain.Token]chain.Weight) {
		for tok, w := range candidates {
			if w < floor {
				dropped++
				continue
			}
			out.ObserveWeight(ctx, tok, w)
		}
	})
	return out, dropped
}
