// Package logger owns the process-wide zap logger used by the dmqpkg CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log level and an optional log file
type Config struct {
	Level    string
	FilePath string
}

type swappableWriter struct {
	mu     sync.RWMutex
	writer io.Writer
}

func (s *swappableWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.writer == nil {
		return len(p), nil
	}
	return s.writer.Write(p)
}

func (s *swappableWriter) Sync() error {
	return nil
}

var (
	mu          sync.RWMutex
	once        sync.Once
	sugar       *zap.SugaredLogger
	base        *zap.Logger
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logFile     *os.File
	stderr      = &swappableWriter{writer: os.Stderr}
)

// Configure (re)builds the global logger from cfg and installs it as the
// zap global logger. The returned function flushes and closes the log file.
func Configure(cfg Config) (func(), error) {
	mu.Lock()
	defer mu.Unlock()

	atomicLevel.SetLevel(parseLevel(cfg.Level))

	encoderCfg := zap.NewDevelopmentConfig().EncoderConfig
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(stderr), atomicLevel),
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if path := strings.TrimSpace(cfg.FilePath); path != "" {
		core, file, err := fileCore(encoderCfg, path)
		if err != nil {
			return nil, err
		}
		logFile = file
		cores = append(cores, core)
	}

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugar = base.Sugar()
	zap.ReplaceGlobals(base)

	file := logFile
	return func() {
		_ = base.Sync()
		if file != nil {
			if err := file.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "error closing log file: %v\n", err)
			}
		}
	}, nil
}

func fileCore(encoderCfg zapcore.EncoderConfig, path string) (zapcore.Core, *os.File, error) {
	cleaned := filepath.Clean(path)
	if dir := filepath.Dir(cleaned); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %q: %w", dir, err)
		}
	}

	file, err := os.OpenFile(cleaned, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %q: %w", cleaned, err)
	}

	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(fileCfg), zapcore.AddSync(file), atomicLevel), file, nil
}

// Logger returns the global sugared logger, configuring it at info level on
// first use
func Logger() *zap.SugaredLogger {
	once.Do(func() {
		mu.RLock()
		ready := sugar != nil
		mu.RUnlock()
		if !ready {
			if _, err := Configure(Config{Level: "info"}); err != nil {
				panic(fmt.Sprintf("logger initialization failed: %v", err))
			}
		}
	})

	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// SetLevel changes the level without rebuilding the logger
func SetLevel(level string) {
	atomicLevel.SetLevel(parseLevel(level))
}

// Level returns the current level name
func Level() string {
	return atomicLevel.Level().String()
}

// ReplaceStderrWriter swaps the console writer and returns the previous one
func ReplaceStderrWriter(w io.Writer) io.Writer {
	if w == nil {
		w = os.Stderr
	}
	stderr.mu.Lock()
	defer stderr.mu.Unlock()
	old := stderr.writer
	stderr.writer = w
	return old
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
