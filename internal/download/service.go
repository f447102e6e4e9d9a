package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/client"
	"github.com/ytget/ytdlp/v2/types"
	"github.com/ytget/ytdlp/v2/youtube/formats"

	"github.com/ytget/ytdw/internal/model"
	"github.com/ytget/ytdw/internal/platform"
)

// Download behavior constants
const (
	DefaultHTTPTimeout = 30 * time.Second
	DefaultMaxRetries  = 3
	RetryBackoff       = 2 * time.Second

	TaskIDPrefix = "task-"

	// DefaultExtension is used when the container cannot be determined
	DefaultExtension = "mp4"

	// UserAgentValue matches a desktop browser; some media endpoints reject
	// the Go default agent.
	UserAgentValue = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds per-invocation download settings
type Config struct {
	OutputDir    string
	Format       string // library format selector, e.g. "best", "height<=720", "itag=22"
	Ext          string // desired container extension, e.g. "mp4"
	RateLimitBps int64  // 0 disables limiting
	HTTPTimeout  time.Duration
	MaxRetries   int
}

// Service handles download operations
type Service struct {
	cfg      Config
	onUpdate func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service
func NewService(cfg Config) *Service {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &Service{cfg: cfg}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// Probe resolves video metadata without downloading media
func (s *Service) Probe(ctx context.Context, url string) (*model.DownloadTask, error) {
	task := s.newTask(url)
	task.Status = model.TaskStatusStarting
	s.notifyUpdate(task)

	if _, err := s.resolveInfo(ctx, task); err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
		task.FinishedAt = time.Now()
		s.notifyUpdate(task)
		return task, err
	}

	task.Status = model.TaskStatusCompleted
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
	return task, nil
}

// Run downloads the video described by url into the configured directory.
// The returned task is always non-nil and carries the final state.
func (s *Service) Run(ctx context.Context, url string) (*model.DownloadTask, error) {
	task := s.newTask(url)
	task.Status = model.TaskStatusStarting
	s.notifyUpdate(task)

	// Resolve metadata first so the summary can be shown before bytes flow
	info, err := s.resolveInfo(ctx, task)
	if err != nil {
		return s.finishWithError(ctx, task, err)
	}

	task.OutputPath = s.outputPath(task.Title, s.containerExt(info.Formats))
	task.Status = model.TaskStatusDownloading
	task.StartedAt = time.Now()
	s.notifyUpdate(task)

	dl := s.newDownloader().
		WithOutputPath(task.OutputPath).
		WithProgress(func(p ytdlp.Progress) {
			s.handleProgress(task, p)
		})

	if _, err := s.downloadWithRetry(ctx, dl, task); err != nil {
		return s.finishWithError(ctx, task, err)
	}

	task.Status = model.TaskStatusCompleted
	task.Progress = 1.0
	task.Percent = 100
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
	return task, nil
}

// resolveInfo fetches video metadata into the task
func (s *Service) resolveInfo(ctx context.Context, task *model.DownloadTask) (*ytdlp.VideoInfo, error) {
	_, info, err := s.newDownloader().ResolveURL(ctx, task.URL)
	if err != nil {
		return nil, fmt.Errorf("resolve video info: %w", err)
	}

	task.Title = info.Title
	task.Uploader = info.Author
	task.DurationSec = info.Duration
	s.notifyUpdate(task)
	return info, nil
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, dl *ytdlp.Downloader, task *model.DownloadTask) (*ytdlp.VideoInfo, error) {
	var lastErr error

	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(RetryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		info, err := dl.Download(ctx, task.URL)
		if err == nil {
			return info, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("download failed after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

// handleProgress updates task progress from library callbacks
func (s *Service) handleProgress(task *model.DownloadTask, p ytdlp.Progress) {
	task.TotalBytes = p.TotalSize
	task.Downloaded = p.DownloadedSize

	if p.TotalSize > 0 {
		task.Progress = float64(p.DownloadedSize) / float64(p.TotalSize)
		task.Percent = int(task.Progress * 100)
	}

	if !task.StartedAt.IsZero() {
		elapsed := time.Since(task.StartedAt).Seconds()
		if elapsed > 0 && p.DownloadedSize > 0 {
			bps := float64(p.DownloadedSize) / elapsed
			task.Speed = humanize.Bytes(uint64(bps)) + "/s"
			if p.TotalSize > p.DownloadedSize && bps > 0 {
				task.ETASec = int(float64(p.TotalSize-p.DownloadedSize) / bps)
			}
		}
	}

	s.notifyUpdate(task)
}

// finishWithError records the failure, mapping cancellation to Stopped
func (s *Service) finishWithError(ctx context.Context, task *model.DownloadTask, err error) (*model.DownloadTask, error) {
	if ctx.Err() == context.Canceled {
		task.Status = model.TaskStatusStopped
		err = fmt.Errorf("download cancelled")
	} else {
		task.Status = model.TaskStatusError
	}
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
	return task, err
}

// newDownloader builds a library downloader with the configured options
func (s *Service) newDownloader() *ytdlp.Downloader {
	c := client.NewWith(client.Config{
		Timeout:   s.cfg.HTTPTimeout,
		UserAgent: UserAgentValue,
	})

	dl := ytdlp.New().WithHTTPClient(c.HTTPClient)
	if s.cfg.Format != "" || s.cfg.Ext != "" {
		dl = dl.WithFormat(s.cfg.Format, s.cfg.Ext)
	}
	if s.cfg.RateLimitBps > 0 {
		dl = dl.WithRateLimit(s.cfg.RateLimitBps)
	}
	return dl
}

// outputPath derives the destination file path from the video title and the
// container extension
func (s *Service) outputPath(title, ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = strings.TrimSpace(s.cfg.Ext)
	}
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Join(s.cfg.OutputDir, platform.SafeFileName(title, ext))
}

// containerExt determines the container extension of the format the library
// selector will actually pick. The selector falls back to other containers
// when nothing matches the desired extension, so the filename must follow the
// selected format rather than the requested one.
func (s *Service) containerExt(available []types.Format) string {
	if len(available) == 0 {
		return s.cfg.Ext
	}
	selected := formats.SelectFormat(available, s.cfg.Format, s.cfg.Ext)
	if selected == nil {
		return s.cfg.Ext
	}
	return extFromMime(selected.MimeType)
}

// extFromMime maps a format MIME type to a file extension (without dot)
func extFromMime(mime string) string {
	base := strings.TrimSpace(mime)
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	switch base {
	case "video/mp4":
		return "mp4"
	case "audio/mp4":
		return "m4a"
	case "video/webm", "audio/webm":
		return "webm"
	}
	if parts := strings.Split(base, "/"); len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return DefaultExtension
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// newTask creates a fresh task for url
func (s *Service) newTask(url string) *model.DownloadTask {
	return &model.DownloadTask{
		ID:     generateTaskID(),
		URL:    url,
		Status: model.TaskStatusPending,
		ETASec: -1,
	}
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
