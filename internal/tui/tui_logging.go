package tui

import (
	"fmt"
	"os"
	"path/filepath"

	nuts "github.com/vaudience/go-nuts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogToFile points nuts.L at path until the returned restore func is called.
// The program owns the terminal in between, so nothing may log to it.
func LogToFile(path string) (restore func(), err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = nuts.SyslogTimeEncoder
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	// stack traces of warnings would flood the file on every failed fetch
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	previous := nuts.L
	sugar := logger.Sugar()
	nuts.L = sugar
	return func() {
		_ = sugar.Sync()
		nuts.L = previous
	}, nil
}
