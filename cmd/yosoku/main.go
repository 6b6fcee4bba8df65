// Copyright 2025 The Yosoku Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Yosoku is an inline next word predictor for the terminal.

While you type, the most likely continuation is shown after the cursor as dim ghost text.
Tab accepts it and immediately offers the next one, Enter commits the line as typed and
Esc cancels. Predictions come from a context chain: the last few words typed are looked up,
and shorter contexts are tried until something matches.

# Usage

Type with the built-in seed table:

	yosoku

Type with your own sources, three words of context, and debug logs on stderr:

	yosoku --source lyrics.txt --source extra.yaml --depth 3 -d

Build a snapshot from a corpus once and load it quickly afterwards:

	yosoku train -o lyrics.chain lyrics.txt
	yosoku --source lyrics.chain

Serve predictions to an editor plugin over msgpack on stdin/stdout:

	yosoku serve

# Sources

A source is a .chain snapshot, a .yaml seed table or a .txt corpus with one passage per line.
Directories load every source they contain. Without any source the built-in seed is used.

# Configuration

Options live in config.toml under the user config directory (for example
~/.config/yosoku/config.toml) and are created with defaults on first run:

	[predictor]
	depth = 2
	fold_case = false

	[chain]
	sources = []
	snapshot = ""
	learn = false
	min_count = 0
	bloom_capacity = 0
	bloom_fp_rate = 0.01

	[editor]
	prompt = "> "
	ghost_color = "8"
	ghost_italic = true
	cancel_result = ""

	[server]
	enable_learn = false

With learn (or enable_learn for serve) on, committed lines are added to the chain, and the
chain is written back to snapshot when one is configured.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"
)

const (
	Version = "0.3.0"
	AppName = "yosoku"
	gh      = "https://github.com/bastiangx/yosoku"
)

// handleSignals runs cleanup and exits when the process is told to stop. The returned
// function unregisters the handler.
func handleSignals(cleanup func()) func() {
	c := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		select {
		case <-c:
			cleanup()
			fmt.Fprintf(os.Stderr, "\nExiting...\n")
			os.Exit(130)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(c)
		close(done)
	}
}

func main() {
	app := &ucli.Command{
		Name:    AppName,
		Usage:   "inline next word prediction for the terminal",
		Version: Version,
		Flags:   globalFlags(),
		Action:  runType,
		Commands: []*ucli.Command{
			typeCmd(),
			serveCmd(),
			trainCmd(),
			configCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
