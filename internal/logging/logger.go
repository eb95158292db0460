// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging wraps zap with file rotation and redaction of credentials.
//
// The terminal UI owns stdout, so by default entries only go to a rotated
// file under ~/.propmatch/. One-shot CLI commands may add a stderr core for
// warnings. Every field passes through the redaction filter before it reaches
// any sink, so bearer tokens and passwords never land on disk.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls where and how much is logged.
type Config struct {
	// Level is debug, info, warn or error. Default info.
	Level string

	// File is the log file path. Empty disables file output.
	File string

	// Rotation, see FileWriterConfig. Zero values use defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Stderr adds a console core writing to stderr at StderrLevel.
	Stderr      bool
	StderrLevel string
}

// Logger is a redacting wrapper over *zap.Logger. A nil *Logger discards
// everything, so components may take an optional logger.
type Logger struct {
	zap *zap.Logger
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core
	if cfg.File != "" {
		writer, err := NewFileWriter(cfg.File, FileWriterConfig{
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   true,
		})
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder(), writer, level))
	}
	if cfg.Stderr {
		stderrLevel := zapcore.WarnLevel
		if cfg.StderrLevel != "" {
			if stderrLevel, err = ParseLevel(cfg.StderrLevel); err != nil {
				return nil, err
			}
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), stderrLevel))
	}
	if len(cores) == 0 {
		return Nop(), nil
	}

	return NewWithCore(zapcore.NewTee(cores...)), nil
}

// NewWithCore wraps an existing core. Tests pass an observer core here.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.zap.Debug(RedactSensitiveData(msg), redactFields(fields)...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.zap.Info(RedactSensitiveData(msg), redactFields(fields)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.zap.Warn(RedactSensitiveData(msg), redactFields(fields)...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	l.zap.Error(RedactSensitiveData(msg), redactFields(fields)...)
}

// With returns a child logger carrying fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{zap: l.zap.With(redactFields(fields)...)}
}

// Named returns a child logger with a name segment appended.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{zap: l.zap.Named(name)}
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level zapcore.Level) bool {
	if l == nil {
		return false
	}
	return l.zap.Core().Enabled(level)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.zap.Sync()
}

// Zap exposes the underlying logger.
func (l *Logger) Zap() *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.zap
}
