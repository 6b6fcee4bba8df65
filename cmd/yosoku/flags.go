package main

import (
	"io"

	"github.com/bastiangx/yosoku/internal/logger"
	"github.com/bastiangx/yosoku/internal/utils"
	"github.com/bastiangx/yosoku/pkg/chain"
	"github.com/bastiangx/yosoku/pkg/config"
	"github.com/bastiangx/yosoku/pkg/predict"
	"github.com/bastiangx/yosoku/pkg/store"
	"github.com/bastiangx/yosoku/pkg/train"
	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"
)

var (
	configPath string
	debug      bool
	depth      int64
	sources    []string
)

func globalFlags() []ucli.Flag {
	return []ucli.Flag{
		&ucli.StringFlag{
			Name:        "config",
			Usage:       "path to config.toml",
			Destination: &configPath,
		},
		&ucli.BoolFlag{
			Name:        "debug",
			Aliases:     []string{"d"},
			Usage:       "debug logging on stderr",
			Destination: &debug,
		},
		&ucli.IntFlag{
			Name:        "depth",
			Usage:       "words of context used for predictions (overrides config)",
			Destination: &depth,
		},
		&ucli.StringSliceFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "chain source (.chain, .yaml, .txt or a directory); repeatable, overrides config",
			Destination: &sources,
		},
	}
}

// app is everything a command needs once config and chain are loaded.
type app struct {
	cfg        *config.Config
	configPath string
	chain      *chain.PredictorChain
	predictor  *predict.Predictor
	trainer    *train.Trainer
}

// setup applies the global flags, loads config and builds the chain.
func setup(cmd *ucli.Command) (*app, error) {
	logger.SetDebug(debug)

	cfg, path, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("depth") {
		cfg.Predictor.Depth = int(depth)
	}
	if len(sources) > 0 {
		cfg.Chain.Sources = sources
	}
	cfg.Validate()
	log.Debug("config", "path", config.GetActiveConfigPath(path), "depth", cfg.Predictor.Depth, "sources", cfg.Chain.Sources)

	resolver := utils.NewPathResolver()
	paths := resolver.ResolveSources(cfg.Chain.Sources)
	if cfg.Chain.Snapshot != "" {
		snap := resolver.ResolveSource(cfg.Chain.Snapshot)
		if utils.FileExists(snap) {
			paths = append([]string{snap}, paths...)
		}
	}

	loader := store.Loader{
		Depth:         cfg.Predictor.Depth,
		FoldCase:      cfg.Predictor.FoldCase,
		MinCount:      uint64(cfg.Chain.MinCount),
		BloomCapacity: uint(cfg.Chain.BloomCapacity),
		BloomFP:       cfg.Chain.BloomFPRate,
	}
	pc, stats, err := loader.Load(paths...)
	if err != nil {
		return nil, err
	}
	log.Debugf("chain ready: %d sources, %s nodes in %v", stats.Sources, utils.FormatCount(pc.Len()), stats.Elapsed)

	return &app{
		cfg:        cfg,
		configPath: path,
		chain:      pc,
		predictor:  predict.New(pc, cfg.Predictor.Depth, predict.WithFoldCase(cfg.Predictor.FoldCase)),
		trainer:    train.New(pc, cfg.Predictor.Depth, train.WithFoldCase(cfg.Predictor.FoldCase)),
	}, nil
}

// persist writes learned state back to the configured snapshot, if any.
func (a *app) persist() error {
	if a.cfg.Chain.Snapshot == "" {
		return nil
	}
	path := utils.NewPathResolver().ResolveSource(a.cfg.Chain.Snapshot)
	meta := store.Meta{Depth: a.cfg.Predictor.Depth, FoldCase: a.cfg.Predictor.FoldCase}
	if err := store.SaveSnapshot(path, a.chain, meta); err != nil {
		return err
	}
	log.Debugf("saved learned chain to %s", path)
	return nil
}

// cleanup returns what must run before the process exits on a signal: the terminal is
// restored first, then learned state is saved.
func (a *app) cleanup(term io.Closer, learning bool) func() {
	return func() {
		if term != nil {
			term.Close()
		}
		if !learning {
			return
		}
		if err := a.persist(); err != nil {
			log.Error("failed to save learned chain", "err", err)
		}
	}
}
