package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidrender/pkg/adapters/mp4source"
	"github.com/user/vidrender/pkg/adapters/osfilesystem"
	"github.com/user/vidrender/pkg/adapters/testpattern"
	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/ports"
)

func synthCommand() *cli.Command {
	return &cli.Command{
		Name:      "synth",
		Usage:     l10n.T("Write a test pattern as a raw video MP4 file"),
		ArgsUsage: "<output.mp4>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "layout", Value: "NV12", Usage: l10n.T("Pixel layout (RGB24, RGB32, NV12, YV12, UYVY, YUY2)")},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Value: 320, Usage: l10n.T("Frame width")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Value: 180, Usage: l10n.T("Frame height")},
			&cli.IntFlag{Name: "fps", Value: 25, Usage: l10n.T("Frame rate")},
			&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Value: 50, Usage: l10n.T("Number of frames")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output")},
		},
		Action: runSynth,
	}
}

func runSynth(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit(l10n.T("Output file argument is required"), 2)
	}
	path := c.Args().First()

	layout, err := media.ParseLayout(c.String("layout"))
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrInvalidConfig, err)
	}
	f := media.FormatDescriptor{Width: c.Int("width"), Height: c.Int("height"), Layout: layout}
	count := c.Int("frames")
	if count < 1 {
		return fmt.Errorf("%w: frames must be at least 1", media.ErrInvalidConfig)
	}

	src, err := testpattern.New(f, c.Int("fps"), count)
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := synthesize(c.Context, src, c.Int("fps"))
	if err != nil {
		return err
	}

	if err := osfilesystem.New().WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if !c.Bool("quiet") {
		fmt.Fprintln(c.App.Writer, l10n.F("Wrote %d frames of %s to %s", count, f, path))
	}
	return nil
}

// synthesize drains src and muxes its frames into a fragmented MP4.
func synthesize(ctx context.Context, src ports.FrameSource, fps int) ([]byte, error) {
	var frames [][]byte
	for {
		s, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, s.Data)
	}

	var buf bytes.Buffer
	if err := mp4source.WriteRaw(&buf, src.Format(), fps, frames); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
