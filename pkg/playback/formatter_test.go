package playback

import (
	"strings"
	"testing"
	"time"

	"github.com/user/vidrender/pkg/media"
	"github.com/user/vidrender/pkg/mocks"
)

func sampleSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Source: SourceInfo{
			Name:   "clip.mp4",
			Format: media.FormatDescriptor{Width: 640, Height: 360, Layout: media.LayoutNV12},
		},
		Settings: Settings{
			Mode:       "windowed",
			AspectMode: "letterbox",
			Buffers:    3,
			Display:    "mjpeg",
			Realtime:   true,
		},
		Frames: FrameStats{
			Read:      100,
			Rendered:  98,
			Dropped:   2,
			Presented: 98,
			Bytes:     1024 * 1024,
		},
		Timing: TimingInfo{
			WallMs:  4000,
			MediaMs: 4000,
		},
	}
}

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	result := NewMarkdownFormatter().Format(sampleSummary())

	checks := []string{
		"# Playback Summary",
		"2024-01-15 10:30:00",
		"clip.mp4",
		"640x360",
		"1.00 MB",
		"windowed",
		"letterbox",
		"mjpeg",
		"| Dropped | 2 |",
		"| Presented | 98 |",
		"4000 ms",
		"24.5",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
	if strings.Contains(result, "Device Losses") {
		t.Error("output should not list device losses when there were none")
	}
	if strings.Contains(result, "Interrupted") {
		t.Error("output should not mark a complete session as interrupted")
	}
}

func TestMarkdownFormatter_Format_DeviceLoss(t *testing.T) {
	s := sampleSummary()
	s.Frames.DeviceLosses = 2
	s.Frames.Restores = 1
	s.Timing.Interrupted = true

	result := NewMarkdownFormatter().Format(s)
	for _, check := range []string{"| Device Losses | 2 |", "| Restores | 1 |", "| Interrupted | yes |"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Playback Summary": "再生サマリー",
			"Dropped":          "ドロップ",
			"yes":              "はい",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	result := NewMarkdownFormatter(WithTranslator(translator)).Format(sampleSummary())

	for _, check := range []string{"再生サマリー", "ドロップ", "はい"} {
		if !strings.Contains(result, check) {
			t.Errorf("expected translated %q", check)
		}
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	result := NewMarkdownFormatter(WithVersion("v1.2.0")).Format(sampleSummary())

	if !strings.Contains(result, "v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	result := NewTextFormatter().Format(sampleSummary())

	if !strings.Contains(result, "Read: 100 / Rendered: 98 / Dropped: 2 / Presented: 98") {
		t.Errorf("unexpected counters line in %q", result)
	}
	if !strings.Contains(result, "(24.5 fps)") {
		t.Errorf("expected frame rate in %q", result)
	}
	if lines := strings.Count(result, "\n"); lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
}

func TestFormatFunc(t *testing.T) {
	var f Formatter = FormatFunc(func(s *Summary) string { return s.Source.Name })
	if got := f.Format(sampleSummary()); got != "clip.mp4" {
		t.Errorf("expected clip.mp4, got %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("reports/summary.md", sampleSummary()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := fs.ReadFile("reports/summary.md")
	if err != nil {
		t.Fatalf("expected summary file, got %v", err)
	}
	if !strings.HasPrefix(string(data), "# Playback Summary") {
		t.Errorf("unexpected content: %q", data)
	}
	if ok, _ := fs.Exists("reports"); !ok {
		t.Error("expected reports directory to be created")
	}
}

func TestBuilder_FullChain(t *testing.T) {
	f := media.FormatDescriptor{Width: 2, Height: 2, Layout: media.LayoutYUY2}
	s := NewBuilder().
		WithSource("bars", f).
		WithSettings(Settings{Mode: "renderless"}).
		WithFrames(FrameStats{Read: 5, Presented: 5}).
		WithTiming(2*time.Second, 200*time.Millisecond, true).
		Build()

	if s.Source.Name != "bars" || s.Source.Format != f {
		t.Errorf("unexpected source: %+v", s.Source)
	}
	if s.Settings.Mode != "renderless" || s.Frames.Read != 5 {
		t.Errorf("unexpected settings or frames: %+v", s)
	}
	if s.Timing.WallMs != 2000 || s.Timing.MediaMs != 200 || !s.Timing.Interrupted {
		t.Errorf("unexpected timing: %+v", s.Timing)
	}
	if fps := s.FPS(); fps != 2.5 {
		t.Errorf("expected 2.5 fps, got %v", fps)
	}
	if s.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
}
