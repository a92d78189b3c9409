package util

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	currentLevel atomic.Int32
	sugar        = newSugar()
)

func init() {
	currentLevel.Store(int32(LogLevelInfo))
}

// newSugar builds the diagnostics logger. It writes to stderr so it never
// interleaves with the log files managed by this module.
func newSugar() *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core).Sugar()
}

func SetLevel(level LogLevel) {
	currentLevel.Store(int32(level))
}

func GetLevel() LogLevel {
	return LogLevel(currentLevel.Load())
}

func enabled(level LogLevel) bool {
	return LogLevel(currentLevel.Load()) <= level
}

func Debug(format string, v ...interface{}) {
	if enabled(LogLevelDebug) {
		sugar.Debugf(format, v...)
	}
}

func Info(format string, v ...interface{}) {
	if enabled(LogLevelInfo) {
		sugar.Infof(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if enabled(LogLevelWarn) {
		sugar.Warnf(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	if enabled(LogLevelError) {
		sugar.Errorf(format, v...)
	}
}

func Fatal(format string, v ...interface{}) {
	sugar.Errorf("[FATAL] "+format, v...)
	_ = sugar.Sync()
	os.Exit(1)
}

// Sync flushes any buffered diagnostics output.
func Sync() {
	_ = sugar.Sync()
}
