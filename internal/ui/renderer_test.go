package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ytget/ytdw/internal/model"
)

func newTestRenderer() (*Renderer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewRenderer(Options{Out: buf, NoColor: true}), buf
}

func TestBanner(t *testing.T) {
	r, buf := newTestRenderer()
	r.Banner("1.2.3")

	output := buf.String()
	if !strings.Contains(output, "ytdw") {
		t.Errorf("Banner output missing app name: %q", output)
	}
	if !strings.Contains(output, "1.2.3") {
		t.Errorf("Banner output missing version: %q", output)
	}
}

func TestVideoInfo(t *testing.T) {
	r, buf := newTestRenderer()
	r.VideoInfo(&model.DownloadTask{
		Title:       "Test Video",
		Uploader:    "Test Channel",
		DurationSec: 213,
	})

	output := buf.String()
	for _, want := range []string{"Test Video", "Channel:", "Test Channel", "Duration:", "03:33"} {
		if !strings.Contains(output, want) {
			t.Errorf("VideoInfo output missing %q: %q", want, output)
		}
	}
}

func TestVideoInfo_UnknownFields(t *testing.T) {
	r, buf := newTestRenderer()
	r.VideoInfo(&model.DownloadTask{Title: "Test Video"})

	output := buf.String()
	if !strings.Contains(output, "Unknown") {
		t.Errorf("VideoInfo output should mark missing metadata as Unknown: %q", output)
	}
}

func TestHandleUpdate_ProgressBarLifecycle(t *testing.T) {
	r, _ := newTestRenderer()

	task := &model.DownloadTask{
		Status:     model.TaskStatusDownloading,
		TotalBytes: 1000,
		Downloaded: 500,
	}

	r.HandleUpdate(task)
	if r.bar == nil {
		t.Fatal("Expected progress bar to be created on first downloading update")
	}

	task.Status = model.TaskStatusCompleted
	r.HandleUpdate(task)
	if r.bar != nil {
		t.Error("Expected progress bar to be released on completion")
	}
}

func TestHandleUpdate_NoProgressFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewRenderer(Options{Out: buf, NoColor: true, NoProgress: true})

	r.HandleUpdate(&model.DownloadTask{
		Status:     model.TaskStatusDownloading,
		TotalBytes: 1000,
		Downloaded: 500,
	})

	if r.bar != nil {
		t.Error("Expected no progress bar with NoProgress set")
	}
}

func TestHandleUpdate_MilestoneLines(t *testing.T) {
	buf := &bytes.Buffer{}
	r := NewRenderer(Options{Out: buf, NoColor: true, NoProgress: true})

	task := &model.DownloadTask{
		Status:     model.TaskStatusDownloading,
		TotalBytes: 1000,
		Speed:      "1.2 MB/s",
		ETASec:     90,
	}

	// Below the first milestone nothing is printed
	task.Downloaded, task.Percent = 100, 10
	r.HandleUpdate(task)
	if buf.Len() != 0 {
		t.Errorf("Expected no output below first milestone, got %q", buf.String())
	}

	task.Downloaded, task.Percent = 500, 50
	r.HandleUpdate(task)
	line := buf.String()
	for _, want := range []string{"50%", "500 B", "1.0 kB", "1.2 MB/s", "ETA 01:30"} {
		if !strings.Contains(line, want) {
			t.Errorf("Milestone line missing %q: %q", want, line)
		}
	}

	// Repeating the same milestone prints nothing new
	before := buf.Len()
	r.HandleUpdate(task)
	if buf.Len() != before {
		t.Error("Expected milestone to be printed only once")
	}
}

func TestHandleUpdate_StartingPrintsNothing(t *testing.T) {
	r, buf := newTestRenderer()

	r.HandleUpdate(&model.DownloadTask{Status: model.TaskStatusStarting})

	if r.bar != nil || buf.Len() != 0 {
		t.Error("Expected no progress output before the transfer begins")
	}
}

func TestHandleUpdate_UnknownTotal(t *testing.T) {
	r, _ := newTestRenderer()

	r.HandleUpdate(&model.DownloadTask{Status: model.TaskStatusDownloading})

	if r.bar != nil {
		t.Error("Expected no progress bar without a known total size")
	}
}

func TestHandleUpdate_ErrorAbandonsBar(t *testing.T) {
	r, _ := newTestRenderer()

	task := &model.DownloadTask{
		Status:     model.TaskStatusDownloading,
		TotalBytes: 1000,
		Downloaded: 10,
	}
	r.HandleUpdate(task)

	task.Status = model.TaskStatusError
	r.HandleUpdate(task)
	if r.bar != nil {
		t.Error("Expected progress bar to be released on error")
	}
}

func TestResultLines(t *testing.T) {
	r, buf := newTestRenderer()

	r.Success("/downloads/video.mp4")
	r.ThumbnailSaved("/downloads/video.jpg")
	r.Warnf("thumbnail skipped: %s", "network error")
	r.Errorf("download failed")
	r.Step("Remuxing into mp4...")

	output := buf.String()
	for _, want := range []string{
		"/downloads/video.mp4",
		"/downloads/video.jpg",
		"thumbnail skipped: network error",
		"download failed",
		"Remuxing into mp4...",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q: %q", want, output)
		}
	}
}
