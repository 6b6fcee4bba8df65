package main

import (
	"context"
	"os"

	"github.com/bastiangx/yosoku/internal/utils"
	"github.com/bastiangx/yosoku/pkg/server"
	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"
)

func serveCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "serve",
		Usage: "answer msgpack prediction requests on stdin/stdout",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			var learner server.Learner
			if a.cfg.Server.EnableLearn {
				learner = a.trainer
			}
			srv := server.NewServer(a.predictor, a.chain, learner)
			stop := handleSignals(a.cleanup(nil, learner != nil))
			defer stop()

			showStartupInfo(a)
			if err := srv.Start(); err != nil {
				return err
			}
			if learner != nil {
				return a.persist()
			}
			return nil
		},
	}
}

// showStartupInfo logs basic facts about the loaded chain on stderr.
func showStartupInfo(a *app) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	st := a.chain.Stats()
	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("chain: %s nodes, %s entries, depth %d", utils.FormatCount(st.Nodes), utils.FormatCount(st.Entries), a.cfg.Predictor.Depth)
	log.Infof("learning: %v", a.cfg.Server.EnableLearn)
	log.Info("status: ready")
}
