package playback

import (
	"fmt"
	"strings"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// FormatterOption configures a MarkdownFormatter or TextFormatter.
type FormatterOption func(*formatterOptions)

type formatterOptions struct {
	translate func(string) string
	version   string
}

// WithTranslator sets the function used to translate labels.
func WithTranslator(t func(string) string) FormatterOption {
	return func(o *formatterOptions) {
		o.translate = t
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(v string) FormatterOption {
	return func(o *formatterOptions) {
		o.version = v
	}
}

func newOptions(opts []FormatterOption) formatterOptions {
	o := formatterOptions{translate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MarkdownFormatter formats a Summary as a Markdown report.
type MarkdownFormatter struct {
	opts formatterOptions
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...FormatterOption) *MarkdownFormatter {
	return &MarkdownFormatter{opts: newOptions(opts)}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.opts.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Playback Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## %s\n\n", t("Source"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	if s.Source.Name != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Name"), s.Source.Name)
	}
	fmt.Fprintf(&b, "| %s | %s |\n", t("Format"), s.Source.Format)
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Data"), formatBytes(s.Frames.Bytes))

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %s |\n", t("Rendering Mode"), s.Settings.Mode)
	fmt.Fprintf(&b, "| %s | %s |\n", t("Aspect Ratio Mode"), s.Settings.AspectMode)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Buffers"), s.Settings.Buffers)
	if s.Settings.Display != "" {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Display"), s.Settings.Display)
	}
	fmt.Fprintf(&b, "| %s | %s |\n\n", t("Realtime"), yesNo(t, s.Settings.Realtime))

	fmt.Fprintf(&b, "## %s\n\n", t("Frames"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d |\n", t("Read"), s.Frames.Read)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Rendered"), s.Frames.Rendered)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Dropped"), s.Frames.Dropped)
	fmt.Fprintf(&b, "| %s | %d |\n", t("Presented"), s.Frames.Presented)
	if s.Frames.DeviceLosses > 0 {
		fmt.Fprintf(&b, "| %s | %d |\n", t("Device Losses"), s.Frames.DeviceLosses)
		fmt.Fprintf(&b, "| %s | %d |\n", t("Restores"), s.Frames.Restores)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Timing"))
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	fmt.Fprintf(&b, "| %s | %d ms |\n", t("Wall Clock"), s.Timing.WallMs)
	fmt.Fprintf(&b, "| %s | %d ms |\n", t("Media Time"), s.Timing.MediaMs)
	fmt.Fprintf(&b, "| %s | %.1f |\n", t("Frame Rate"), s.FPS())
	if s.Timing.Interrupted {
		fmt.Fprintf(&b, "| %s | %s |\n", t("Interrupted"), yesNo(t, true))
	}

	if f.opts.version != "" {
		fmt.Fprintf(&b, "\n---\n\nvidrender %s\n", f.opts.version)
	}
	return b.String()
}

// TextFormatter formats a Summary as a few plain lines for the console.
type TextFormatter struct {
	opts formatterOptions
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(opts ...FormatterOption) *TextFormatter {
	return &TextFormatter{opts: newOptions(opts)}
}

// Format implements Formatter.
func (f *TextFormatter) Format(s *Summary) string {
	t := f.opts.translate
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", t("Format"), s.Source.Format)
	fmt.Fprintf(&b, "%s: %d / %s: %d / %s: %d / %s: %d\n",
		t("Read"), s.Frames.Read,
		t("Rendered"), s.Frames.Rendered,
		t("Dropped"), s.Frames.Dropped,
		t("Presented"), s.Frames.Presented)
	if s.Frames.DeviceLosses > 0 {
		fmt.Fprintf(&b, "%s: %d / %s: %d\n", t("Device Losses"), s.Frames.DeviceLosses, t("Restores"), s.Frames.Restores)
	}
	fmt.Fprintf(&b, "%s: %d ms (%.1f fps)\n", t("Wall Clock"), s.Timing.WallMs, s.FPS())
	return b.String()
}

func yesNo(t func(string) string, v bool) string {
	if v {
		return t("yes")
	}
	return t("no")
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
