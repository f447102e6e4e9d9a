package download

import (
	"context"

	"github.com/ytget/ytdw/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))

	// Probe resolves video metadata without downloading media
	Probe(ctx context.Context, url string) (*model.DownloadTask, error)

	// Run downloads the video and returns the finished task
	Run(ctx context.Context, url string) (*model.DownloadTask, error)
}

var _ Downloader = (*Service)(nil)
