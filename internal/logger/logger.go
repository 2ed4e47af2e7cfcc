// Package logger builds the zap logger shared by the server, the schema
// bootstrap and the queue consumer.
package logger

import (
    "os"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New returns a zap logger configured from the given level ("debug",
// "info", "warn", "error") and format ("json" or "console").  The service
// name, when non-empty, is attached to every entry so aggregated logs can
// be filtered per deployment.
func New(level, format, service string) (*zap.Logger, error) {
    var zapLevel zapcore.Level
    switch level {
    case "debug":
        zapLevel = zapcore.DebugLevel
    case "warn":
        zapLevel = zapcore.WarnLevel
    case "error":
        zapLevel = zapcore.ErrorLevel
    default:
        zapLevel = zapcore.InfoLevel
    }

    var cfg zap.Config
    if format == "console" {
        cfg = zap.NewDevelopmentConfig()
    } else {
        cfg = zap.NewProductionConfig()
        cfg.EncoderConfig.TimeKey = "timestamp"
        cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
        cfg.OutputPaths = []string{"stdout"}
        cfg.ErrorOutputPaths = []string{"stderr"}
    }
    cfg.Level = zap.NewAtomicLevelAt(zapLevel)

    l, err := cfg.Build()
    if err != nil {
        return nil, err
    }
    if service != "" {
        l = l.With(zap.String("service", service))
    }
    if hostname, err := os.Hostname(); err == nil && hostname != "" {
        l = l.With(zap.String("hostname", hostname))
    }
    return l, nil
}

// FromEnv builds the logger from LOG_LEVEL and LOG_FORMAT, defaulting to
// info-level JSON output.
func FromEnv(service string) (*zap.Logger, error) {
    return New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), service)
}
