package model

import "testing"

func TestGetETAString(t *testing.T) {
	tests := []struct {
		name     string
		etaSec   int
		expected string
	}{
		{"unknown", -1, "—"},
		{"zero", 0, "—"},
		{"seconds only", 42, "00:42"},
		{"minutes and seconds", 125, "02:05"},
		{"with hours", 3725, "01:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &DownloadTask{ETASec: tt.etaSec}
			result := task.GetETAString()
			if result != tt.expected {
				t.Errorf("GetETAString() with ETASec=%d = %q, expected %q", tt.etaSec, result, tt.expected)
			}
		})
	}
}

func TestGetDurationString(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		expected string
	}{
		{"unknown", 0, "Unknown"},
		{"short video", 213, "03:33"},
		{"long video", 7384, "02:03:04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &DownloadTask{DurationSec: tt.duration}
			result := task.GetDurationString()
			if result != tt.expected {
				t.Errorf("GetDurationString() with DurationSec=%d = %q, expected %q", tt.duration, result, tt.expected)
			}
		})
	}
}

func TestGetDisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		task     DownloadTask
		expected string
	}{
		{
			name:     "title preferred",
			task:     DownloadTask{Title: "Some Video", OutputPath: "/tmp/other.mp4", URL: "https://youtu.be/abc"},
			expected: "Some Video",
		},
		{
			name:     "url-like title skipped",
			task:     DownloadTask{Title: "https://youtu.be/abc", OutputPath: "/tmp/video file.mp4"},
			expected: "video file",
		},
		{
			name:     "filename from output path",
			task:     DownloadTask{OutputPath: "/downloads/My Clip.webm"},
			expected: "My Clip",
		},
		{
			name:     "windows separators",
			task:     DownloadTask{OutputPath: `C:\Users\name\Videos\clip.mp4`},
			expected: "clip",
		},
		{
			name:     "fallback to url",
			task:     DownloadTask{URL: "https://www.youtube.com/watch?v=abc"},
			expected: "https://www.youtube.com/watch?v=abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.task.GetDisplayTitle()
			if result != tt.expected {
				t.Errorf("GetDisplayTitle() = %q, expected %q", result, tt.expected)
			}
		})
	}
}
