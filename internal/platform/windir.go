package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Windows host query constants
const (
	WindowsCmdCommand = "cmd.exe"
	WindowsCmdFlag    = "/c"
	UsernameQuery     = "echo %USERNAME%"

	// DetectTimeout bounds the cmd.exe round-trip; the WSL interop layer can
	// hang when the Windows side is unresponsive.
	DetectTimeout = 3 * time.Second
)

// Default directory layout
const (
	WindowsUsersRoot = "/mnt/c/Users"
	WindowsVideosDir = "Videos"
	DownloadsDirName = "Youtube Downloads"
)

// DefaultDownloadDir returns the default output directory. Inside WSL it is
// the Windows user's Videos folder; everywhere else it is a folder under the
// user's home directory.
func DefaultDownloadDir(ctx context.Context) string {
	if name, err := WindowsUsername(ctx); err == nil {
		return WindowsDownloadDir(name)
	}
	return HomeDownloadDir()
}

// WindowsUsername queries the Windows host for the current user name via the
// WSL interop layer. It fails when cmd.exe is unavailable (not WSL) or when
// the answer is unusable.
func WindowsUsername(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DetectTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, WindowsCmdCommand, WindowsCmdFlag, UsernameQuery)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("query windows username: %w", err)
	}
	return ParseUsernameOutput(string(out))
}

// ParseUsernameOutput extracts a usable user name from cmd.exe output.
// The output is CRLF-terminated; an unexpanded %USERNAME% or anything with
// path separators is rejected.
func ParseUsernameOutput(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("empty cmd.exe answer")
	}
	if strings.Contains(name, "%") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("unusable cmd.exe answer: %q", name)
	}
	return name, nil
}

// WindowsDownloadDir builds the download directory under the Windows user's
// Videos folder as seen from WSL.
func WindowsDownloadDir(username string) string {
	return filepath.Join(WindowsUsersRoot, username, WindowsVideosDir, DownloadsDirName)
}

// HomeDownloadDir builds the fallback download directory under the user's
// home directory.
func HomeDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DownloadsDirName
	}
	return filepath.Join(home, DownloadsDirName)
}
