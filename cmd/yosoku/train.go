package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bastiangx/yosoku/internal/logger"
	"github.com/bastiangx/yosoku/internal/utils"
	"github.com/bastiangx/yosoku/pkg/config"
	"github.com/bastiangx/yosoku/pkg/store"
	ucli "github.com/urfave/cli/v3"
)

func trainCmd() *ucli.Command {
	var (
		output        string
		minCount      int64
		bloomCapacity int64
	)

	return &ucli.Command{
		Name:      "train",
		Usage:     "build a .chain snapshot from corpora and seed tables",
		ArgsUsage: "SOURCE...",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "snapshot file to write",
				Value:       "out.chain",
				Destination: &output,
			},
			&ucli.IntFlag{
				Name:        "min-count",
				Usage:       "drop candidates seen fewer times (overrides config)",
				Destination: &minCount,
			},
			&ucli.IntFlag{
				Name:        "bloom-capacity",
				Usage:       "expected distinct n-grams; enables the singleton filter (overrides config)",
				Destination: &bloomCapacity,
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			logger.SetDebug(debug)
			if cmd.Args().Len() == 0 {
				return errors.New("train: no sources given")
			}

			cfg, _, err := config.LoadConfigWithPriority(configPath)
			if err != nil {
				return err
			}
			if cmd.IsSet("depth") {
				cfg.Predictor.Depth = int(depth)
			}
			if cmd.IsSet("min-count") {
				cfg.Chain.MinCount = int(minCount)
			}
			if cmd.IsSet("bloom-capacity") {
				cfg.Chain.BloomCapacity = int(bloomCapacity)
			}
			cfg.Validate()

			loader := store.Loader{
				Depth:         cfg.Predictor.Depth,
				FoldCase:      cfg.Predictor.FoldCase,
				MinCount:      uint64(cfg.Chain.MinCount),
				BloomCapacity: uint(cfg.Chain.BloomCapacity),
				BloomFP:       cfg.Chain.BloomFPRate,
			}
			pc, stats, err := loader.Load(cmd.Args().Slice()...)
			if err != nil {
				return err
			}

			meta := store.Meta{Depth: cfg.Predictor.Depth, FoldCase: cfg.Predictor.FoldCase}
			if err := store.SaveSnapshot(output, pc, meta); err != nil {
				return err
			}

			st := pc.Stats()
			fmt.Printf("wrote %s: %s words from %d sources, %s nodes, %s entries, %s pruned, %s singletons skipped (%v)\n",
				output, utils.FormatCount(stats.Words), stats.Sources, utils.FormatCount(st.Nodes),
				utils.FormatCount(st.Entries), utils.FormatCount(stats.Pruned), utils.FormatCount(stats.Skipped), stats.Elapsed)
			return nil
		},
	}
}
