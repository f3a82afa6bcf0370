package main

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidrender/pkg/adapters/osfilesystem"
	"github.com/user/vidrender/pkg/config"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/renderer"
)

func snapshotCommand() *cli.Command {
	flags := append(rendererFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output PNG file path (required)")},
		&cli.IntFlag{Name: "frame", Aliases: []string{"f"}, Usage: l10n.T("Index of the frame to capture")},
		&cli.StringFlag{Name: "pattern", Value: "RGB32", Usage: l10n.T("Pixel layout of the test pattern when no file is given")},
		&cli.IntFlag{Name: "pattern-width", Value: 320, Usage: l10n.T("Test pattern width")},
		&cli.IntFlag{Name: "pattern-height", Value: 180, Usage: l10n.T("Test pattern height")},
		&cli.IntFlag{Name: "fps", Value: 25, Usage: l10n.T("Test pattern frame rate")},
	)

	return &cli.Command{
		Name:      "snapshot",
		Usage:     l10n.T("Render one frame and save the presented image as PNG"),
		ArgsUsage: "[file.mp4]",
		Flags:     flags,
		Action:    runSnapshot,
	}
}

func runSnapshot(c *cli.Context) error {
	fs := osfilesystem.New()
	cfg, err := buildConfig(c, fs)
	if err != nil {
		return err
	}
	if cfg.Mode == renderer.ModeRenderless.String() {
		return fmt.Errorf("%w: snapshot needs the built-in presenter, not renderless mode", media.ErrInvalidConfig)
	}
	// the presented image is read back from the device, no display is needed
	cfg.Display = config.DisplayNull
	log := newLogger(c, cfg)

	src, _, err := openSource(c, fs)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := openOutput(cfg, fs, log)
	if err != nil {
		return err
	}
	defer out.Close()

	r, _, err := out.newRenderer(cfg)
	if err != nil {
		return err
	}
	if err := r.Connect(media.VideoType(src.Format())); err != nil {
		return err
	}
	defer r.Disconnect()
	if err := r.StartStream(); err != nil {
		return err
	}
	defer r.StopStream()

	target := c.Int("frame")
	for i := 0; ; i++ {
		s, err := src.Next(c.Context)
		if err == io.EOF {
			return fmt.Errorf("source ended after %d frames, frame %d not reached", i, target)
		}
		if err != nil {
			return err
		}
		if i < target {
			continue
		}
		if err := r.Render(s); err != nil {
			return err
		}
		break
	}

	img, err := r.CurrentImage()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	path := c.String("output")
	if err := fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info(l10n.F("Snapshot saved to %s", path))
	return nil
}
