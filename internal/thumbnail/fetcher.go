// Package thumbnail retrieves YouTube thumbnail images over plain HTTP and
// stores them next to the downloaded video.
package thumbnail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ytget/ytdw/internal/platform"
)

const (
	// DefaultBaseURL is the YouTube image host serving static thumbnails.
	DefaultBaseURL = "https://i.ytimg.com/vi"

	ThumbnailExtension = "jpg"

	defaultHTTPTimeout = 15 * time.Second
)

// variants are tried in order; not every video has the higher resolutions.
var variants = []string{
	"maxresdefault.jpg",
	"sddefault.jpg",
	"hqdefault.jpg",
	"mqdefault.jpg",
	"default.jpg",
}

// Fetcher downloads video thumbnails
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher creates a new thumbnail fetcher. If client is nil a default
// client with a short timeout is used.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Fetcher{
		client:  client,
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL overrides the thumbnail host, used by tests
func (f *Fetcher) SetBaseURL(base string) {
	f.baseURL = strings.TrimSuffix(base, "/")
}

// Fetch downloads the best available thumbnail for videoURL into destDir.
// The file is named after title (sanitized), falling back to the video ID.
// Returns the path of the saved image.
func (f *Fetcher) Fetch(ctx context.Context, videoURL, destDir, title string) (string, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(title)
	if name == "" {
		name = videoID
	}
	destPath := filepath.Join(destDir, platform.SafeFileName(name, ThumbnailExtension))

	var lastErr error
	for _, variant := range variants {
		imageURL := fmt.Sprintf("%s/%s/%s", f.baseURL, videoID, variant)
		if err := f.fetchOne(ctx, imageURL, destPath); err != nil {
			lastErr = err
			continue
		}
		return destPath, nil
	}
	return "", fmt.Errorf("no thumbnail available for %s: %w", videoID, lastErr)
}

// fetchOne downloads a single candidate URL to destPath
func (f *Fetcher) fetchOne(ctx context.Context, imageURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP status %d for %s", resp.StatusCode, imageURL)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create thumbnail file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}

// ExtractVideoID extracts the 11-character video ID from the common YouTube
// URL forms (watch, youtu.be, shorts, embed).
func ExtractVideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("parse video url: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	case "youtube.com", "m.youtube.com":
		if strings.HasPrefix(u.Path, "/watch") {
			if id := u.Query().Get("v"); id != "" {
				return id, nil
			}
		}
		for _, prefix := range []string{"/shorts/", "/embed/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
					return id, nil
				}
			}
		}
	}
	return "", fmt.Errorf("invalid youtube url: %s", videoURL)
}
