package platform

import (
	"regexp"
	"strings"
)

// Filename constraints, matching the downloader library's sanitizer
const (
	MaxFilenameLength = 120
	DefaultFileName   = "video"
)

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// SafeFileName builds a cross-platform safe filename from a title and
// extension (without dot in ext)
func SafeFileName(title, ext string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = DefaultFileName
	}
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)
	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return name + "." + ext
}
