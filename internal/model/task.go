package model

import (
	"fmt"
	"strings"
	"time"
)

// DownloadTask represents a single download task
type DownloadTask struct {
	ID            string
	URL           string
	Status        TaskStatus
	Progress      float64 // 0.0 to 1.0
	Percent       int     // 0 to 100
	Speed         string  // human readable speed (e.g., "1.2 MB/s")
	ETASec        int     // ETA in seconds, -1 if unknown
	LastError     string  // last error message if any
	OutputPath    string  // path to downloaded file
	ThumbnailPath string  // path to saved thumbnail, empty if skipped
	StartedAt     time.Time
	FinishedAt    time.Time
	Title         string // video title
	Uploader      string // channel name
	DurationSec   int    // video duration in seconds, 0 if unknown
	TotalBytes    int64  // total size in bytes, 0 if unknown
	Downloaded    int64  // bytes downloaded so far
}

// RemuxTask represents a single container remux task
type RemuxTask struct {
	ID         string
	InputPath  string
	OutputPath string
	Status     TaskStatus
	Progress   float64 // 0.0 to 1.0
	Percent    int     // 0 to 100
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}
	return formatClock(dt.ETASec)
}

// GetDurationString returns the video duration formatted as hh:mm:ss, or "Unknown"
func (dt *DownloadTask) GetDurationString() string {
	if dt.DurationSec <= 0 {
		return "Unknown"
	}
	return formatClock(dt.DurationSec)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	// Second priority: filename from OutputPath
	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}

// formatClock formats seconds as mm:ss, or hh:mm:ss when an hour or longer
func formatClock(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
