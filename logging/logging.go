// Package logging provides the process-wide logger of spinbench.
//
// The default logger writes to stderr so that the report lines on stdout stay
// machine-readable. Two environment variables tune it:
//
//	SPINBENCH_LOGGING_LEVEL: debug, info, warn, error, dpanic, panic or fatal (or -1..5)
//	SPINBENCH_LOGGING_FILE:  log to this file instead, rotated by lumberjack
package logging

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

const (
	DebugLevel  Level = zapcore.DebugLevel
	InfoLevel   Level = zapcore.InfoLevel
	WarnLevel   Level = zapcore.WarnLevel
	ErrorLevel  Level = zapcore.ErrorLevel
	DPanicLevel Level = zapcore.DPanicLevel
	PanicLevel  Level = zapcore.PanicLevel
	FatalLevel  Level = zapcore.FatalLevel
)

// Logger is used for logging formatted messages.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	// Fatalf logs a message and then calls os.Exit(1).
	Fatalf(format string, args ...interface{})
}

var (
	mu                  sync.RWMutex
	defaultLogger       Logger
	defaultLoggingLevel Level
	flushLogs           func() error
)

func init() {
	defaultLoggingLevel = InfoLevel
	if lvl := os.Getenv("SPINBENCH_LOGGING_LEVEL"); len(lvl) > 0 {
		level, err := ParseLevel(lvl)
		if err != nil {
			panic("invalid SPINBENCH_LOGGING_LEVEL, " + err.Error())
		}
		defaultLoggingLevel = level
	}

	if fileName := os.Getenv("SPINBENCH_LOGGING_FILE"); len(fileName) > 0 {
		var err error
		defaultLogger, flushLogs, err = CreateLoggerAsLocalFile(fileName, defaultLoggingLevel)
		if err != nil {
			panic("invalid SPINBENCH_LOGGING_FILE, " + err.Error())
		}
		return
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(defaultLoggingLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	zapLogger, _ := cfg.Build()
	defaultLogger = zapLogger.Sugar()
	flushLogs = zapLogger.Sync
}

// ParseLevel accepts a level name or its numeric value.
func ParseLevel(s string) (Level, error) {
	if n, err := strconv.ParseInt(s, 10, 8); err == nil {
		level := Level(n)
		if level < DebugLevel || level > FatalLevel {
			return InfoLevel, errors.New("logging level out of range: " + s)
		}
		return level, nil
	}

	var level Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return InfoLevel, err
	}
	return level, nil
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// GetDefaultLogger returns the default logger.
func GetDefaultLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefaultLoggerAndFlusher replaces the default logger and its flusher.
func SetDefaultLoggerAndFlusher(logger Logger, flusher func() error) {
	mu.Lock()
	defaultLogger, flushLogs = logger, flusher
	mu.Unlock()
}

// LogLevel returns the name of the default logging level.
func LogLevel() string {
	return defaultLoggingLevel.String()
}

// CreateLoggerAsLocalFile sets up a logger writing to localFilePath,
// rotated by lumberjack.
func CreateLoggerAsLocalFile(localFilePath string, logLevel Level) (logger Logger, flush func() error, err error) {
	if len(localFilePath) == 0 {
		return nil, nil, errors.New("invalid local logger path")
	}

	// lumberjack.Logger is already safe for concurrent use, so we don't need to lock it.
	lumberJackLogger := &lumberjack.Logger{
		Filename:   localFilePath,
		MaxSize:    100, // megabytes
		MaxBackups: 2,
		MaxAge:     15, // days
	}

	ws := zapcore.AddSync(lumberJackLogger)
	levelEnabler := zap.LevelEnablerFunc(func(level Level) bool {
		return level >= logLevel
	})
	core := zapcore.NewCore(getEncoder(), ws, levelEnabler)
	zapLogger := zap.New(core, zap.AddCaller())
	logger = zapLogger.Sugar()
	flush = func() error {
		syncErr := zapLogger.Sync()
		if err := lumberJackLogger.Close(); err != nil {
			return err
		}
		return syncErr
	}
	return
}

// Cleanup flushes the buffered logs of the default logger.
func Cleanup() {
	mu.RLock()
	if flushLogs != nil {
		_ = flushLogs()
	}
	mu.RUnlock()
}

// Error prints err if it's not nil.
func Error(err error) {
	if err != nil {
		GetDefaultLogger().Errorf("error occurs during runtime, %v", err)
	}
}

// Debugf logs messages at DEBUG level.
func Debugf(format string, args ...interface{}) {
	GetDefaultLogger().Debugf(format, args...)
}

// Infof logs messages at INFO level.
func Infof(format string, args ...interface{}) {
	GetDefaultLogger().Infof(format, args...)
}

// Warnf logs messages at WARN level.
func Warnf(format string, args ...interface{}) {
	GetDefaultLogger().Warnf(format, args...)
}

// Errorf logs messages at ERROR level.
func Errorf(format string, args ...interface{}) {
	GetDefaultLogger().Errorf(format, args...)
}

// Fatalf logs messages at FATAL level.
func Fatalf(format string, args ...interface{}) {
	GetDefaultLogger().Fatalf(format, args...)
}
