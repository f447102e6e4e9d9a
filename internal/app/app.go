// Package app wires the CLI surface to the download, thumbnail, remux, and
// presentation layers.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ytget/ytdw/internal/config"
	"github.com/ytget/ytdw/internal/download"
	"github.com/ytget/ytdw/internal/model"
	"github.com/ytget/ytdw/internal/platform"
	"github.com/ytget/ytdw/internal/remux"
	"github.com/ytget/ytdw/internal/thumbnail"
	"github.com/ytget/ytdw/internal/ui"
)

const (
	AppName = "ytdw"
	appHelp = "Download YouTube videos with style."
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Version is set during build via -ldflags "-X .../internal/app.Version=X.Y.Z"
var Version = "dev"

// options holds the parsed CLI flags
type options struct {
	url           string
	outputDir     string
	thumbnailOnly bool
	noThumbnail   bool
	format        string
	ext           string
	rateLimit     string
	httpTimeout   time.Duration
	noProgress    bool
	noColor       bool
	configPath    string
}

// Run executes the CLI and returns the process exit code
func Run(args []string, out, errOut io.Writer) int {
	opts, err := parseArgs(args, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "%s: error: %v\n", AppName, err)
		return ExitUsage
	}

	renderer := ui.NewRenderer(ui.Options{
		Out:        out,
		NoColor:    opts.noColor,
		NoProgress: opts.noProgress,
	})

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		renderer.Errorf("%v", err)
		return ExitError
	}
	applyFlagOverrides(&cfg, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = platform.DefaultDownloadDir(ctx)
	}
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		renderer.Errorf("create output directory %s: %v", outputDir, err)
		return ExitError
	}

	renderer.Banner(Version)

	svc := download.NewService(download.Config{
		OutputDir:    outputDir,
		Format:       cfg.FormatSelector(),
		Ext:          cfg.Extension,
		RateLimitBps: cfg.RateLimitBps(),
		HTTPTimeout:  opts.httpTimeout,
	})

	fetcher := thumbnail.NewFetcher(nil)

	if opts.thumbnailOnly {
		return runThumbnailOnly(ctx, renderer, svc, fetcher, opts.url, outputDir)
	}
	return runDownload(ctx, renderer, svc, fetcher, cfg, opts.url, outputDir)
}

// runThumbnailOnly fetches metadata and the thumbnail, skipping the video
func runThumbnailOnly(ctx context.Context, renderer *ui.Renderer, svc download.Downloader, fetcher *thumbnail.Fetcher, url, outputDir string) int {
	renderer.Step("Fetching video info...")
	task, err := svc.Probe(ctx, url)
	if err != nil {
		renderer.Errorf("%v", err)
		return ExitError
	}
	renderer.VideoInfo(task)

	renderer.Step("Fetching thumbnail...")
	path, err := fetcher.Fetch(ctx, url, outputDir, task.Title)
	if err != nil {
		renderer.Errorf("%v", err)
		return ExitError
	}
	renderer.ThumbnailSaved(path)
	return ExitOK
}

// runDownload performs the full video pipeline: download, thumbnail, remux
func runDownload(ctx context.Context, renderer *ui.Renderer, svc download.Downloader, fetcher *thumbnail.Fetcher, cfg config.Config, url, outputDir string) int {
	infoShown := false
	svc.SetUpdateCallback(func(task *model.DownloadTask) {
		// The metadata panel appears once, after resolution and before bytes
		if !infoShown && task.Status == model.TaskStatusDownloading {
			infoShown = true
			renderer.VideoInfo(task)
		}
		renderer.HandleUpdate(task)
	})

	renderer.Step("Fetching video info...")
	task, err := svc.Run(ctx, url)
	if err != nil {
		renderer.Errorf("%v", err)
		return ExitError
	}

	if !cfg.SkipThumbnail {
		if path, err := fetcher.Fetch(ctx, url, outputDir, task.Title); err != nil {
			// The video is already on disk; a missing thumbnail is not fatal
			renderer.Warnf("thumbnail skipped: %v", err)
		} else {
			task.ThumbnailPath = path
			renderer.ThumbnailSaved(path)
		}
	}

	if shouldRemux(cfg, task.OutputPath) {
		renderer.Step("Remuxing into mp4...")
		rsvc := remux.NewService()
		rtask, err := rsvc.Remux(ctx, task.OutputPath)
		if err != nil {
			renderer.Errorf("%v", err)
			return ExitError
		}
		task.OutputPath = rtask.OutputPath
	}

	renderer.Success(task.OutputPath)
	return ExitOK
}

// shouldRemux reports whether the downloaded file should be rewrapped into
// mp4. An explicitly requested non-mp4 container is kept as delivered.
func shouldRemux(cfg config.Config, outputPath string) bool {
	if !cfg.RemuxMP4 {
		return false
	}
	if cfg.Extension != "" && !strings.EqualFold(cfg.Extension, config.DefaultExtension) {
		return false
	}
	return remux.NeedsRemux(outputPath)
}

// parseArgs parses CLI arguments into options
func parseArgs(args []string, errOut io.Writer) (*options, error) {
	opts := &options{}

	a := kingpin.New(AppName, appHelp)
	a.Version(Version)
	a.HelpFlag.Short('h')
	a.UsageWriter(errOut)
	a.ErrorWriter(errOut)

	a.Arg("url", "YouTube video URL to download.").Required().StringVar(&opts.url)
	a.Flag("output", "Output directory (default: Windows Videos folder on WSL, home otherwise).").Short('o').StringVar(&opts.outputDir)
	a.Flag("thumbnail", "Download only the thumbnail (skip video download).").BoolVar(&opts.thumbnailOnly)
	a.Flag("no-thumbnail", "Skip downloading the thumbnail with the video.").BoolVar(&opts.noThumbnail)
	a.Flag("format", "Format selector (e.g. 'best', 'height<=720', 'itag=22').").StringVar(&opts.format)
	a.Flag("ext", "Desired container extension (e.g. 'mp4', 'webm').").StringVar(&opts.ext)
	a.Flag("rate-limit", "Download rate limit (e.g. 2MiB/s, 500KiB/s).").StringVar(&opts.rateLimit)
	a.Flag("http-timeout", "HTTP timeout (e.g. 30s, 1m).").Default("30s").DurationVar(&opts.httpTimeout)
	a.Flag("no-progress", "Disable the progress bar.").BoolVar(&opts.noProgress)
	a.Flag("no-color", "Disable colored output.").BoolVar(&opts.noColor)
	a.Flag("config", "Config file path (default: ~/.config/ytdw/config.toml).").StringVar(&opts.configPath)

	if _, err := a.Parse(args); err != nil {
		return nil, err
	}

	if opts.thumbnailOnly && opts.noThumbnail {
		return nil, fmt.Errorf("--thumbnail and --no-thumbnail are mutually exclusive")
	}
	return opts, nil
}

// applyFlagOverrides layers CLI flags over file configuration
func applyFlagOverrides(cfg *config.Config, opts *options) {
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.format != "" {
		// An explicit selector bypasses the quality preset mapping
		cfg.Quality = ""
		cfg.RawFormat = opts.format
	}
	if opts.ext != "" {
		cfg.Extension = opts.ext
	}
	if opts.rateLimit != "" {
		cfg.RateLimit = opts.rateLimit
	}
	if opts.noThumbnail {
		cfg.SkipThumbnail = true
	}
}
