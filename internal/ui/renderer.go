package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/ytget/ytdw/internal/model"
)

// Bar layout constants
const (
	BarWidth       = 40
	BarDescription = "Downloading"
	BarThrottle    = 65 * time.Millisecond

	// MilestoneStep is the percent interval between plain progress lines
	// printed when the bar is disabled
	MilestoneStep = 25
)

// Options configures the renderer
type Options struct {
	Out        io.Writer
	NoColor    bool
	NoProgress bool
}

// Renderer prints application output to the terminal
type Renderer struct {
	out        io.Writer
	noProgress bool
	bar        *progressbar.ProgressBar
	lastLogged int // last milestone percent printed in plain mode
}

// NewRenderer creates a terminal renderer
func NewRenderer(opts Options) *Renderer {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.NoColor {
		color.NoColor = true
	}
	return &Renderer{
		out:        opts.Out,
		noProgress: opts.NoProgress,
	}
}

// Banner prints the application header
func (r *Renderer) Banner(version string) {
	c := color.New(color.FgMagenta, color.Bold)
	_, _ = c.Fprintf(r.out, "ytdw")
	fmt.Fprintf(r.out, " — YouTube Downloader v%s\n\n", version)
}

// VideoInfo prints the metadata summary for a resolved video
func (r *Renderer) VideoInfo(task *model.DownloadTask) {
	_, _ = color.New(color.FgWhite, color.Bold).Fprintf(r.out, "%s\n", task.GetDisplayTitle())
	r.printField("Channel", valueOrUnknown(task.Uploader))
	r.printField("Duration", task.GetDurationString())
	if task.TotalBytes > 0 {
		r.printField("Size", humanize.Bytes(uint64(task.TotalBytes)))
	}
	fmt.Fprintln(r.out)
}

// HandleUpdate drives the progress display from download task updates
func (r *Renderer) HandleUpdate(task *model.DownloadTask) {
	switch {
	case task.Status.IsActive():
		r.renderProgress(task)
	case task.Status == model.TaskStatusCompleted:
		r.finishBar()
	case task.Status.IsFinished():
		r.abandonBar()
	}
}

// renderProgress draws the bar, or prints milestone lines when the bar is off
func (r *Renderer) renderProgress(task *model.DownloadTask) {
	if task.Status != model.TaskStatusDownloading || task.TotalBytes <= 0 {
		return
	}
	if r.noProgress {
		r.printMilestone(task)
		return
	}
	if r.bar == nil {
		r.bar = r.newBar(task.TotalBytes)
	}
	_ = r.bar.Set64(task.Downloaded)
}

// printMilestone prints a plain progress line every MilestoneStep percent,
// for logs and non-interactive terminals
func (r *Renderer) printMilestone(task *model.DownloadTask) {
	if task.Percent < r.lastLogged+MilestoneStep {
		return
	}
	r.lastLogged = task.Percent - task.Percent%MilestoneStep
	fmt.Fprintf(r.out, "%3d%%  %s / %s  %s  ETA %s\n",
		task.Percent,
		humanize.Bytes(uint64(task.Downloaded)),
		humanize.Bytes(uint64(task.TotalBytes)),
		task.Speed,
		task.GetETAString())
}

// Step prints an in-progress activity line
func (r *Renderer) Step(format string, args ...interface{}) {
	_, _ = color.New(color.FgHiBlack).Fprintf(r.out, "# "+format+"\n", args...)
}

// Success prints the final completion message
func (r *Renderer) Success(path string) {
	c := color.New(color.FgGreen, color.Bold)
	_, _ = c.Fprintf(r.out, "✓ Saved to: ")
	fmt.Fprintln(r.out, path)
}

// ThumbnailSaved reports the saved thumbnail path
func (r *Renderer) ThumbnailSaved(path string) {
	c := color.New(color.FgGreen)
	_, _ = c.Fprintf(r.out, "✓ Thumbnail saved to: ")
	fmt.Fprintln(r.out, path)
}

// Warnf prints a non-fatal warning
func (r *Renderer) Warnf(format string, args ...interface{}) {
	_, _ = color.New(color.FgYellow).Fprintf(r.out, "! "+format+"\n", args...)
}

// Errorf prints an error line
func (r *Renderer) Errorf(format string, args ...interface{}) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintf(r.out, "✗ "+format+"\n", args...)
}

// printField prints an aligned key/value metadata line
func (r *Renderer) printField(key string, value interface{}) {
	_, _ = color.New(color.FgHiCyan).Fprintf(r.out, "  %-9s ", key+":")
	fmt.Fprintf(r.out, "%v\n", value)
}

// newBar builds the download progress bar
func (r *Renderer) newBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(BarDescription),
		progressbar.OptionSetWidth(BarWidth),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(BarThrottle),
		progressbar.OptionClearOnFinish(),
	)
}

// finishBar completes and clears the bar
func (r *Renderer) finishBar() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
	r.bar = nil
	fmt.Fprintln(r.out)
}

// abandonBar clears an unfinished bar so error output starts on a clean line
func (r *Renderer) abandonBar() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Clear()
	r.bar = nil
	fmt.Fprintln(r.out)
}

// valueOrUnknown substitutes a placeholder for empty metadata
func valueOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
