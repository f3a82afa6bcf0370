// Package main provides the CLI entry point for vidrender.
package main

import (
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func newApp() *cli.App {
	return &cli.App{
		Name:    "vidrender",
		Usage:   l10n.T("Render raw video frames to a window, a stream or image files"),
		Version: version,
		Description: l10n.T("vidrender negotiates a surface pool on a software graphics device, " +
			"copies raw frames into it and presents them to the selected display."),
		Commands: []*cli.Command{
			playCommand(),
			synthCommand(),
			snapshotCommand(),
			monitorsCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("vidrender version %s", version))
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
