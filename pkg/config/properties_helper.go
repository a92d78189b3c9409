package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/downfa11-org/boundlog/util"
)

func (cfg *Config) Normalize() {
	cfg.LogPath = strings.TrimSpace(cfg.LogPath)
	if cfg.LogPath != "" {
		cfg.LogPath = expandPath(cfg.LogPath)
	}
	if strings.TrimSpace(cfg.ProductName) == "" {
		cfg.ProductName = DefaultProductName
	}

	// retention caps
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	if cfg.MaxLines < 4 {
		util.Warn("MaxLines (%d) too small to cut a quarter, defaulting to %d", cfg.MaxLines, DefaultMaxLines)
		cfg.MaxLines = DefaultMaxLines
	}
	if cfg.MaxLineBytes <= 3 {
		cfg.MaxLineBytes = DefaultMaxLineBytes
	}
	if int64(cfg.MaxLineBytes) > cfg.MaxBytes {
		util.Warn("MaxLineBytes (%d) exceeds MaxBytes (%d), clamping", cfg.MaxLineBytes, cfg.MaxBytes)
		cfg.MaxLineBytes = int(cfg.MaxBytes)
	}
	// 0 disables the queue cap
	if cfg.MaxPendingLines < 0 {
		cfg.MaxPendingLines = DefaultMaxPendingLines
	}

	// diagnostics
	if cfg.ExporterPort <= 0 {
		cfg.ExporterPort = DefaultExporterPort
	}

	cfg.ExportCompression = strings.ToLower(strings.TrimSpace(cfg.ExportCompression))
	switch cfg.ExportCompression {
	case "none", "gzip", "lz4":
	case "":
		cfg.ExportCompression = "gzip"
	default:
		util.Warn("Invalid export_compression '%s', defaulting to 'gzip'", cfg.ExportCompression)
		cfg.ExportCompression = "gzip"
	}
}

// expandPath resolves "~" and makes the path absolute; the writer only
// accepts absolute paths.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func overrideEnvInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseInt(v, *target)
	}
}

func overrideEnvInt64(target *int64, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseInt64(v, *target)
	}
}

func overrideEnvBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseBool(v, *target)
	}
}

func overrideEnvString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideEnvLogLevel(target *util.LogLevel, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseLogLevel(v)
	}
}
