package platform

// Package platform contains OS/environment integration: default download
// directory resolution (including the WSL-to-Windows folder detection) and
// filesystem helpers.
