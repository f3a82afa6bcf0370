package main

import (
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidrender/pkg/adapters/logger"
	"github.com/user/vidrender/pkg/adapters/x11display"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

func monitorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitors",
		Usage: l10n.T("List the monitors of the X server"),
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "virtual", Usage: l10n.T("List this many virtual monitors instead of querying X11")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "warn", Usage: l10n.T("Log level (debug, info, warn, error)")},
		},
		Action: runMonitors,
	}
}

func runMonitors(c *cli.Context) error {
	log := logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))

	var monitors []media.MonitorInfo
	if n := c.Int("virtual"); n > 0 {
		monitors = virtualMonitors(n)
	} else {
		var err error
		monitors, err = x11display.ListMonitors(log)
		if err != nil {
			return err
		}
	}

	for _, m := range monitors {
		primary := ""
		if m.Primary {
			primary = " " + l10n.T("(primary)")
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%dx%d+%d+%d%s\n", m.ID, m.Name,
			m.Bounds.Dx(), m.Bounds.Dy(), m.Bounds.Left, m.Bounds.Top, primary)
	}
	return nil
}
