// Package logger is a thin wrapper around go.uber.org/zap: a package
// singleton configured once at startup from a logger.Config. cmd/server
// hands Logger to pkg/server and pkg/info as a *zap.Logger; the
// package-level Debug/Info/Warn/Error helpers log through the same
// singleton.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide structured logger, set by InitLogger.
var Logger *zap.Logger

// SugarLogger is Logger.Sugar(), for call sites that prefer
// printf-style arguments over structured fields.
var SugarLogger *zap.SugaredLogger

// InitLogger builds Logger and SugarLogger from cfg. An invalid
// cfg.Level is returned as an error rather than panicking, so a bad
// config file fails startup cleanly instead of crashing mid-init.
func InitLogger(cfg *Config) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
	}

	core := zapcore.NewCore(jsonEncoder(), rotatingWriter(cfg), level)
	Logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	SugarLogger = Logger.Sugar()
	return nil
}

func jsonEncoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(ec)
}

func rotatingWriter(cfg *Config) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxAge:     cfg.MaxAge,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	})
}

// Sync flushes any buffered log entries. Callers should defer it once
// at process shutdown, after InitLogger has run.
func Sync() error {
	if Logger == nil {
		return nil
	}
	return Logger.Sync()
}

// Debug logs msg at DebugLevel with the given structured fields.
func Debug(msg string, fields ...zap.Field) { Logger.Debug(msg, fields...) }

// Info logs msg at InfoLevel with the given structured fields.
func Info(msg string, fields ...zap.Field) { Logger.Info(msg, fields...) }

// Warn logs msg at WarnLevel with the given structured fields.
func Warn(msg string, fields ...zap.Field) { Logger.Warn(msg, fields...) }

// Error logs msg at ErrorLevel with the given structured fields.
func Error(msg string, fields ...zap.Field) { Logger.Error(msg, fields...) }

// With returns a child logger carrying fields on every subsequent log
// call, independent of Logger itself.
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}
