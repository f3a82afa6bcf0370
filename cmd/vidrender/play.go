package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidrender/pkg/adapters/mp4source"
	"github.com/user/vidrender/pkg/adapters/osfilesystem"
	"github.com/user/vidrender/pkg/adapters/testpattern"
	"github.com/user/vidrender/pkg/allocator"
	"github.com/user/vidrender/pkg/config"
	"github.com/user/vidrender/pkg/device"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/playback"
	"github.com/user/vidrender/pkg/ports"
	"github.com/user/vidrender/pkg/presenter"
	"github.com/user/vidrender/pkg/renderer"
)

func playCommand() *cli.Command {
	flags := append(rendererFlags(),
		&cli.BoolFlag{Name: "realtime", Value: true, Category: catRenderer, Usage: l10n.T("Pace presentation to frame timestamps")},
		&cli.BoolFlag{Name: "loop", Usage: l10n.T("Restart the file when it ends")},
		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Stop after this many frames (0 = all)")},
		&cli.StringFlag{Name: "pattern", Value: "RGB32", Usage: l10n.T("Pixel layout of the test pattern when no file is given")},
		&cli.IntFlag{Name: "pattern-width", Value: 320, Usage: l10n.T("Test pattern width")},
		&cli.IntFlag{Name: "pattern-height", Value: 180, Usage: l10n.T("Test pattern height")},
		&cli.IntFlag{Name: "fps", Value: 25, Usage: l10n.T("Test pattern frame rate")},
		&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: l10n.T("Output playback summary to file (Markdown format)")},
	)

	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play a raw video MP4 file or a test pattern"),
		ArgsUsage: "[file.mp4]",
		Flags:     flags,
		Action:    runPlay,
	}
}

func runPlay(c *cli.Context) error {
	fs := osfilesystem.New()
	cfg, err := buildConfig(c, fs)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	src, name, err := openSource(c, fs)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := openOutput(cfg, fs, log)
	if err != nil {
		return err
	}
	defer out.Close()

	r, sys, err := out.newRenderer(cfg)
	if err != nil {
		return err
	}
	if r.RenderingMode() == renderer.ModeRenderless {
		if err := r.AdviseAllocatorPresenter(newHostedPair(sys, out.windowing, cfg, log)); err != nil {
			return err
		}
	}

	player := playback.New(r, log, playback.Options{
		Realtime:  cfg.Realtime,
		MaxFrames: c.Int("frames"),
		Name:      name,
		Settings: playback.Settings{
			Mode:       cfg.Mode,
			AspectMode: cfg.AspectMode,
			Buffers:    cfg.Buffers,
			Display:    cfg.Display,
			Realtime:   cfg.Realtime,
		},
	})

	log.Info(l10n.F("Playing %s on %s display...", name, cfg.Display))
	summary, err := player.Run(ctx, src)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprint(c.App.Writer, playback.NewTextFormatter(playback.WithTranslator(l10n.T)).Format(summary))

	if path := c.String("summary"); path != "" {
		w := playback.NewWriter(playback.NewMarkdownFormatter(
			playback.WithTranslator(l10n.T),
			playback.WithVersion(version),
		), fs)
		if err := w.Write(path, summary); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", path))
		}
	}
	return nil
}

// openSource opens the MP4 file named by the first argument, or a test
// pattern source when there is none.
func openSource(c *cli.Context, fs ports.FileSystem) (ports.FrameSource, string, error) {
	if c.NArg() > 0 {
		path := c.Args().First()
		if ok, err := fs.Exists(path); err != nil {
			return nil, "", err
		} else if !ok {
			return nil, "", errors.New(l10n.F("Input file not found: %s", path))
		}
		src, err := mp4source.Open(fs, path)
		if err != nil {
			return nil, "", err
		}
		src.SetLoop(c.Bool("loop"))
		return src, path, nil
	}

	layout, err := media.ParseLayout(c.String("pattern"))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", media.ErrInvalidConfig, err)
	}
	f := media.FormatDescriptor{
		Width:  c.Int("pattern-width"),
		Height: c.Int("pattern-height"),
		Layout: layout,
	}
	src, err := testpattern.New(f, c.Int("fps"), c.Int("frames"))
	if err != nil {
		return nil, "", err
	}
	return src, fmt.Sprintf("test pattern %s", f), nil
}

// hostedPair is an allocator-presenter owned by the host instead of the
// renderer, used to exercise renderless mode.
type hostedPair struct {
	*allocator.Allocator
	*presenter.Presenter
}

var _ ports.AllocatorPresenter = (*hostedPair)(nil)

func newHostedPair(gs ports.GraphicsSystem, windowing ports.Windowing, cfg config.Config, log ports.Logger) *hostedPair {
	log = log.WithComponent("host")
	holder := device.NewHolder(log)
	pres := presenter.New(holder, log)
	if border, err := config.ParseColor(cfg.BorderColor); err == nil {
		pres.SetBorderColor(border)
	}
	return &hostedPair{
		Allocator: allocator.New(gs, windowing, holder, log),
		Presenter: pres,
	}
}
