package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/downfa11-org/boundlog/util"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxBytes        int64 = 32 * 1024 * 1024 // 32 MiB
	DefaultMaxLines              = 4096
	DefaultMaxLineBytes          = 32 * 1024 // 32 KiB
	DefaultMaxPendingLines       = 8192
	DefaultExporterPort          = 9100
	DefaultProductName           = "boundlog"
)

// Config holds the log writer settings.
type Config struct {
	// Target file
	LogPath     string `yaml:"log_path" json:"log.path" toml:"log_path"`
	ProductName string `yaml:"product_name" json:"product.name" toml:"product_name"`

	// Retention caps
	MaxBytes        int64 `yaml:"max_bytes" json:"max.bytes" toml:"max_bytes"`
	MaxLines        int   `yaml:"max_lines" json:"max.lines" toml:"max_lines"`
	MaxLineBytes    int   `yaml:"max_line_bytes" json:"max.line.bytes" toml:"max_line_bytes"`
	MaxPendingLines int   `yaml:"max_pending_lines" json:"max.pending.lines" toml:"max_pending_lines"`

	// Diagnostics
	LogLevel       util.LogLevel `yaml:"log_level" json:"log_level" toml:"log_level"`
	EnableExporter bool          `yaml:"enable_exporter" json:"enable.exporter" toml:"enable_exporter"`
	ExporterPort   int           `yaml:"exporter_port" json:"exporter.port" toml:"exporter_port"`

	// Export
	ExportCompression string `yaml:"export_compression" json:"export.compression" toml:"export_compression"`
}

// LoadConfig builds a Config from command-line flags, an optional config
// file (-config or CONFIG_PATH) and BOUNDLOG_* environment overrides.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(flag.CommandLine, os.Args[1:])
}

// LoadConfigFrom is LoadConfig over an explicit flag set and argument list.
func LoadConfigFrom(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	configPath := fs.String("config", "", "Path to YAML/JSON/TOML config file")
	logPathStr := fs.String("log-path", "", "Absolute path of the log file")
	productStr := fs.String("product-name", DefaultProductName, "Product name stamped on every line")
	maxBytesStr := fs.String("max-bytes", "33554432", "Byte size that triggers head truncation")
	maxLinesStr := fs.String("max-lines", "4096", "Line count that triggers head truncation")
	maxLineBytesStr := fs.String("max-line-bytes", "32768", "Maximum encoded size of a single line")
	maxPendingStr := fs.String("max-pending-lines", "8192", "Queued lines before writers wait for the in-flight flush")
	logLevelStr := fs.String("log-level", "info", "Log Level (debug, info, warn, error)")
	exporterStr := fs.String("exporter", "false", "Enable Prometheus exporter")
	exporterPortStr := fs.String("exporter-port", "9100", "Exporter port")
	compressionStr := fs.String("export-compression", "gzip", "Compression for exported logs (none, gzip, lz4)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" && *configPath == "" {
		*configPath = envPath
	}

	flags := flagValues{
		logPath:      logPathStr,
		product:      productStr,
		maxBytes:     maxBytesStr,
		maxLines:     maxLinesStr,
		maxLineBytes: maxLineBytesStr,
		maxPending:   maxPendingStr,
		logLevel:     logLevelStr,
		exporter:     exporterStr,
		exporterPort: exporterPortStr,
		compression:  compressionStr,
	}

	applyDefaults(cfg, flags)

	if *configPath != "" {
		if err := loadFile(cfg, *configPath); err != nil {
			return nil, err
		}
	}

	applyExplicitFlags(cfg, fs)
	applyEnv(cfg)

	cfg.Normalize()
	util.SetLevel(cfg.LogLevel)

	if cfg.LogPath == "" {
		return nil, fmt.Errorf("log path must be provided (-log-path or log_path)")
	}
	return cfg, nil
}

// Default returns a Config holding every default value and no log path.
func Default() *Config {
	return &Config{
		ProductName:       DefaultProductName,
		MaxBytes:          DefaultMaxBytes,
		MaxLines:          DefaultMaxLines,
		MaxLineBytes:      DefaultMaxLineBytes,
		MaxPendingLines:   DefaultMaxPendingLines,
		LogLevel:          util.LogLevelInfo,
		ExporterPort:      DefaultExporterPort,
		ExportCompression: "gzip",
	}
}

// LoadFile reads the config file at path (or CONFIG_PATH when path is empty)
// over the defaults and applies BOUNDLOG_* overrides. Unlike LoadConfig it
// does not require a log path, so readers of existing files can use it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	cfg.Normalize()
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

type flagValues struct {
	logPath, product, maxBytes, maxLines, maxLineBytes, maxPending *string
	logLevel, exporter, exporterPort, compression                   *string
}

func applyDefaults(cfg *Config, f flagValues) {
	cfg.LogPath = *f.logPath
	cfg.ProductName = *f.product
	cfg.MaxBytes = util.ParseInt64(*f.maxBytes, DefaultMaxBytes)
	cfg.MaxLines = util.ParseInt(*f.maxLines, DefaultMaxLines)
	cfg.MaxLineBytes = util.ParseInt(*f.maxLineBytes, DefaultMaxLineBytes)
	cfg.MaxPendingLines = util.ParseInt(*f.maxPending, DefaultMaxPendingLines)
	cfg.LogLevel = util.ParseLogLevel(*f.logLevel)
	cfg.EnableExporter = util.ParseBool(*f.exporter, false)
	cfg.ExporterPort = util.ParseInt(*f.exporterPort, DefaultExporterPort)
	cfg.ExportCompression = *f.compression
}

// applyExplicitFlags re-applies only the flags the user actually set, so
// they win over the config file.
func applyExplicitFlags(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "log-path":
			cfg.LogPath = v
		case "product-name":
			cfg.ProductName = v
		case "max-bytes":
			cfg.MaxBytes = util.ParseInt64(v, cfg.MaxBytes)
		case "max-lines":
			cfg.MaxLines = util.ParseInt(v, cfg.MaxLines)
		case "max-line-bytes":
			cfg.MaxLineBytes = util.ParseInt(v, cfg.MaxLineBytes)
		case "max-pending-lines":
			cfg.MaxPendingLines = util.ParseInt(v, cfg.MaxPendingLines)
		case "log-level":
			cfg.LogLevel = util.ParseLogLevel(v)
		case "exporter":
			cfg.EnableExporter = util.ParseBool(v, cfg.EnableExporter)
		case "exporter-port":
			cfg.ExporterPort = util.ParseInt(v, cfg.ExporterPort)
		case "export-compression":
			cfg.ExportCompression = v
		}
	})
}

func applyEnv(cfg *Config) {
	overrideEnvString(&cfg.LogPath, "BOUNDLOG_LOG_PATH")
	overrideEnvString(&cfg.ProductName, "BOUNDLOG_PRODUCT_NAME")
	overrideEnvInt64(&cfg.MaxBytes, "BOUNDLOG_MAX_BYTES")
	overrideEnvInt(&cfg.MaxLines, "BOUNDLOG_MAX_LINES")
	overrideEnvInt(&cfg.MaxLineBytes, "BOUNDLOG_MAX_LINE_BYTES")
	overrideEnvInt(&cfg.MaxPendingLines, "BOUNDLOG_MAX_PENDING_LINES")
	overrideEnvLogLevel(&cfg.LogLevel, "BOUNDLOG_LOG_LEVEL")
	overrideEnvBool(&cfg.EnableExporter, "BOUNDLOG_EXPORTER")
	overrideEnvInt(&cfg.ExporterPort, "BOUNDLOG_EXPORTER_PORT")
	overrideEnvString(&cfg.ExportCompression, "BOUNDLOG_EXPORT_COMPRESSION")
}
