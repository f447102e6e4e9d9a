package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Quality presets for downloads
type QualityPreset string

const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
	QualityLow    QualityPreset = "low"
)

// Default values
const (
	DefaultQualityPreset = QualityBest
	DefaultExtension     = "mp4"
	DefaultRemuxMP4      = true

	ConfigDirName  = "ytdw"
	ConfigFileName = "config.toml"
)

// Height caps for the non-best presets, expressed as library format selectors
const (
	MediumHeightSelector = "height<=720"
	LowHeightSelector    = "height<=480"
)

// Config holds the application configuration. Zero values mean "use default";
// Load starts from Default so absent TOML keys keep their defaults.
type Config struct {
	OutputDir     string `toml:"output_dir"`
	Quality       string `toml:"quality"`
	Extension     string `toml:"extension"`
	RateLimit     string `toml:"rate_limit"`
	SkipThumbnail bool   `toml:"skip_thumbnail"`
	RemuxMP4      bool   `toml:"remux_mp4"`

	// RawFormat is an explicit library format selector set from the CLI only.
	// It bypasses the quality preset mapping.
	RawFormat string `toml:"-"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Quality:   string(DefaultQualityPreset),
		Extension: DefaultExtension,
		RemuxMP4:  DefaultRemuxMP4,
	}
}

// DefaultPath returns the default config file location
// (~/.config/ytdw/config.toml on Linux)
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, ConfigDirName, ConfigFileName), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = defaultPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that have a closed domain
func (c *Config) Validate() error {
	switch QualityPreset(c.Quality) {
	case QualityBest, QualityMedium, QualityLow, "":
	default:
		return fmt.Errorf("unknown quality preset %q", c.Quality)
	}
	return nil
}

// FormatSelector maps the quality preset to a library format selector
func (c *Config) FormatSelector() string {
	if c.RawFormat != "" {
		return c.RawFormat
	}
	switch QualityPreset(c.Quality) {
	case QualityMedium:
		return MediumHeightSelector
	case QualityLow:
		return LowHeightSelector
	default:
		return string(QualityBest)
	}
}

// RateLimitBps returns the configured rate limit in bytes per second,
// 0 when unlimited
func (c *Config) RateLimitBps() int64 {
	return ParseRate(c.RateLimit)
}

// ParseRate parses strings like "2MiB/s", "500KiB/s" into bytes per second.
// Unparseable input yields 0 (no limit).
func ParseRate(s string) int64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0
	}
	s = strings.TrimSuffix(s, "/S")
	s = strings.TrimSpace(s)

	mul := int64(1)
	sfx := ""
	for _, suf := range []string{"KIB", "MIB", "GIB", "KB", "MB", "GB"} {
		if strings.HasSuffix(s, suf) {
			sfx = suf
			s = strings.TrimSuffix(s, suf)
			break
		}
	}
	s = strings.TrimSpace(s)

	var val float64
	if _, err := fmt.Sscanf(s, "%f", &val); err != nil || val <= 0 {
		return 0
	}
	switch sfx {
	case "KIB":
		mul = 1024
	case "MIB":
		mul = 1024 * 1024
	case "GIB":
		mul = 1024 * 1024 * 1024
	case "KB":
		mul = 1000
	case "MB":
		mul = 1000 * 1000
	case "GB":
		mul = 1000 * 1000 * 1000
	}
	return int64(val * float64(mul))
}
