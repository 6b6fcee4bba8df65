package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bastiangx/yosoku/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	ucli "github.com/urfave/cli/v3"
)

func versionCmd() *ucli.Command {
	return &ucli.Command{
		Name:  "version",
		Usage: "print version information",
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			banner := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
				Prefix:          "",
			})

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			banner.SetStyles(styles)

			banner.Print("")
			banner.Print("[ Yosoku ] next word predictions as you type")
			banner.Print("", "version", Version)
			banner.Print("")
			banner.Print("use -h or --help to see available options")
			banner.Print("Github Repo", "gh", gh)
			return nil
		},
	}
}

func configCmd() *ucli.Command {
	var rebuild bool

	return &ucli.Command{
		Name:  "config",
		Usage: "show the active config file, or rewrite it with defaults",
		Flags: []ucli.Flag{
			&ucli.BoolFlag{
				Name:        "rebuild",
				Usage:       "overwrite the default config.toml with built-in defaults",
				Destination: &rebuild,
			},
		},
		Action: func(ctx context.Context, cmd *ucli.Command) error {
			if rebuild {
				path, err := config.RebuildConfigFile()
				if err != nil {
					return err
				}
				fmt.Println(path)
				return nil
			}
			_, path, err := config.LoadConfigWithPriority(configPath)
			if err != nil {
				return err
			}
			fmt.Println(config.GetActiveConfigPath(path))
			return nil
		},
	}
}
