// Package logger sets up the zap logger used across the bot and adapts it to the SDK client.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fastset-labs/fastset-go-sdk/config"
)

const (
	maxSizeMB  = 20
	maxBackups = 5
	maxAgeDays = 14
)

// New builds a JSON logger writing to a rotating file and, when enabled, a console encoder on
// stderr. The returned cleanup flushes and closes the file.
func New(cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: LOG_LEVEL: %v", config.ErrConfig, err)
		}
		level = lvl
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		cores []zapcore.Core
		file  *lumberjack.Logger
	)
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level))
	}
	if cfg.Console {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	log := zap.New(zapcore.NewTee(cores...))
	cleanup := func() {
		_ = log.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return log, cleanup, nil
}

// SDKLogger satisfies the fastset client's Logger interface on top of zap.
type SDKLogger struct {
	s *zap.SugaredLogger
}

func NewSDKLogger(l *zap.Logger) *SDKLogger {
	return &SDKLogger{s: l.Named("api").Sugar()}
}

func (l *SDKLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l *SDKLogger) Infof(format string, v ...any)  { l.s.Debugf(format, v...) }
func (l *SDKLogger) Warnf(format string, v ...any)  { l.s.Warnf(format, v...) }
func (l *SDKLogger) Errorf(format string, v ...any) { l.s.Errorf(format, v...) }
