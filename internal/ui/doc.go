package ui

// Package ui renders the terminal output: banner, video metadata summary,
// live download progress bar, and result lines.
