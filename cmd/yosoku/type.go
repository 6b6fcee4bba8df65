package main

import (
	"context"
	"os"

	"github.com/bastiangx/yosoku/internal/cli"
	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"
)

func typeCmd() *ucli.Command {
	return &ucli.Command{
		Name:   "type",
		Usage:  "type lines with inline predictions (default)",
		Action: runType,
	}
}

func runType(ctx context.Context, cmd *ucli.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	term, err := cli.OpenTerminal(os.Stdin)
	if err != nil {
		return err
	}
	defer term.Close()
	log.Debug("terminal", "raw", term.IsRaw(), "width", term.Width())

	var learner cli.Learner
	if a.cfg.Chain.Learn {
		learner = a.trainer
	}
	stop := handleSignals(a.cleanup(term, learner != nil))
	defer stop()

	renderer := cli.NewLineRenderer(os.Stdout, a.cfg.Editor.Prompt,
		cli.GhostStyle(a.cfg.Editor.GhostColor, a.cfg.Editor.GhostItalic))
	session := cli.NewSession(a.predictor, learner, a.cfg.Editor.CancelResult)

	lines, err := session.Run(cli.NewKeyDecoder(os.Stdin), renderer)
	if err != nil {
		return err
	}
	log.Debugf("session done, %d lines committed", len(lines))
	if final, ok := session.Outcome(); ok {
		log.Debug("session cancelled", "result", final.Text)
	}

	if err := term.Close(); err != nil {
		return err
	}
	if err := session.WriteResult(os.Stdout); err != nil {
		return err
	}

	if learner != nil && len(lines) > 0 {
		return a.persist()
	}
	return nil
}
