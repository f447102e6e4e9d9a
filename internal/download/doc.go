package download

// Package download implements the download pipeline built on top of the
// ytdlp library (github.com/ytget/ytdlp/v2). It manages the task lifecycle,
// metadata resolution, retry with backoff, and progress propagation to the
// terminal UI.
