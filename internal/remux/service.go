// Package remux rewraps downloaded media into an mp4 container using the
// external ffmpeg tool, without re-encoding streams.
package remux

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/ytdw/internal/model"
)

// FFmpeg invocation constants
const (
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"

	CodecCopy     = "copy"
	FastStartFlag = "+faststart"

	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"

	ProgressPipeTarget = "pipe:2"
	ProgressTimePrefix = "out_time_us="

	TaskIDPrefix    = "remux-"
	OutputExtension = ".mp4"
)

// ErrFFmpegNotFound is returned when ffmpeg is not installed; the message
// carries the install hint shown to the user.
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH; install it to remux into mp4 (e.g. `sudo apt install ffmpeg`)")

// Service handles container remux operations
type Service struct {
	onUpdate func(*model.RemuxTask) // callback for UI updates
}

// NewService creates a new remux service
func NewService() *Service {
	return &Service{}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.RemuxTask)) {
	s.onUpdate = callback
}

// NeedsRemux reports whether the file at path should be rewrapped into mp4
func NeedsRemux(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && ext != OutputExtension
}

// Remux rewraps inputPath into an mp4 next to it, removing the source file on
// success. It blocks until ffmpeg finishes or ctx is cancelled.
func (s *Service) Remux(ctx context.Context, inputPath string) (*model.RemuxTask, error) {
	if _, err := exec.LookPath(FFmpegCommand); err != nil {
		return nil, ErrFFmpegNotFound
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	task := &model.RemuxTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: generateOutputPath(inputPath),
		Status:     model.TaskStatusStarting,
		StartedAt:  time.Now(),
	}
	s.notifyUpdate(task)

	// Duration drives the progress percentage; without it the bar stays
	// indeterminate but the remux still runs.
	duration, err := videoDuration(inputPath)
	if err != nil {
		duration = 0
	}

	args := BuildFFmpegArgs(task.InputPath, task.OutputPath)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return s.failTask(task, fmt.Errorf("failed to create stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return s.failTask(task, fmt.Errorf("failed to start ffmpeg: %w", err))
	}

	task.Status = model.TaskStatusDownloading
	s.notifyUpdate(task)

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		s.monitorProgress(stderr, task, duration)
	}()

	waitErr := cmd.Wait()
	<-monitorDone

	if ctx.Err() == context.Canceled {
		os.Remove(task.OutputPath)
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
		s.notifyUpdate(task)
		return task, fmt.Errorf("remux cancelled")
	}
	if waitErr != nil {
		os.Remove(task.OutputPath)
		return s.failTask(task, fmt.Errorf("ffmpeg failed: %w", waitErr))
	}

	// Source is replaced by the remuxed file
	if err := os.Remove(task.InputPath); err != nil && !os.IsNotExist(err) {
		return s.failTask(task, fmt.Errorf("failed to remove source file: %w", err))
	}

	task.Status = model.TaskStatusCompleted
	task.Progress = 1.0
	task.Percent = 100
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
	return task, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments for a codec-copy remux
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-codec", CodecCopy,
		"-movflags", FastStartFlag,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// videoDuration gets the duration of a video file in seconds using ffprobe
func videoDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress parses ffmpeg -progress output (out_time_us=N lines)
func (s *Service) monitorProgress(stderr io.ReadCloser, task *model.RemuxTask, totalDuration float64) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ProgressTimePrefix) {
			continue
		}

		timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
		if err != nil {
			continue
		}

		if totalDuration <= 0 {
			continue
		}
		progress := float64(timeMicroseconds) / 1e6 / totalDuration
		if progress > 1.0 {
			progress = 1.0
		}

		task.Progress = progress
		task.Percent = int(progress * 100)
		s.notifyUpdate(task)
	}
}

// failTask records an error state and returns it
func (s *Service) failTask(task *model.RemuxTask, err error) (*model.RemuxTask, error) {
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
	return task, err
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.RemuxTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateOutputPath swaps the input extension for .mp4
func generateOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + OutputExtension
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
