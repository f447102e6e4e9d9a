package thumbnail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch url no www", "https://youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"mobile url", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", false},
		{"missing id", "https://www.youtube.com/watch", "", true},
		{"other host", "https://vimeo.com/12345", "", true},
		{"not a url", "://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExtractVideoID(%q) expected error, got %q", tt.url, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) unexpected error: %v", tt.url, err)
			}
			if result != tt.expected {
				t.Errorf("ExtractVideoID(%q) = %q, expected %q", tt.url, result, tt.expected)
			}
		})
	}
}

func TestFetch_FallsBackToLowerResolution(t *testing.T) {
	requested := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		// Only hqdefault exists for this video
		if strings.HasSuffix(r.URL.Path, "hqdefault.jpg") {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("jpeg-bytes"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	destDir := t.TempDir()
	fetcher := NewFetcher(server.Client())
	fetcher.SetBaseURL(server.URL)

	path, err := fetcher.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ", destDir, "Test Clip")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	expectedPath := filepath.Join(destDir, "Test Clip.jpg")
	if path != expectedPath {
		t.Errorf("Fetch() path = %q, expected %q", path, expectedPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved thumbnail: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("Saved thumbnail content = %q, expected 'jpeg-bytes'", string(data))
	}

	// maxres and sd were tried before hq
	if len(requested) != 3 {
		t.Errorf("Expected 3 requests, got %d: %v", len(requested), requested)
	}
}

func TestFetch_NoThumbnailAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	fetcher.SetBaseURL(server.URL)

	_, err := fetcher.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ", t.TempDir(), "Test")
	if err == nil {
		t.Error("Expected error when no variant is available, got nil")
	}
}

func TestFetch_NamesAfterVideoIDWhenTitleEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	destDir := t.TempDir()
	fetcher := NewFetcher(server.Client())
	fetcher.SetBaseURL(server.URL)

	path, err := fetcher.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ", destDir, "")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if filepath.Base(path) != "dQw4w9WgXcQ.jpg" {
		t.Errorf("Expected filename 'dQw4w9WgXcQ.jpg', got %q", filepath.Base(path))
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	fetcher := NewFetcher(nil)
	_, err := fetcher.Fetch(context.Background(), "https://example.com/video", t.TempDir(), "Test")
	if err == nil {
		t.Error("Expected error for non-YouTube URL, got nil")
	}
}
