package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

var (
	global  *zap.Logger = zap.NewNop()
	// helpers skips the wrapper frame of the package-level functions.
	helpers *zap.Logger = global
	mu      sync.RWMutex
)

// Init builds the process logger for the given environment and installs it
// as the package-level logger. Unknown levels fall back to info.
func Init(env string, level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case EnvLocal, EnvDev:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	SetLogger(l)

	return l, nil
}

// SetLogger replaces the package-level logger and returns a function
// restoring the previous one.
func SetLogger(l *zap.Logger) func() {
	mu.Lock()
	prev := global
	global = l
	helpers = l.WithOptions(zap.AddCallerSkip(1))
	mu.Unlock()
	return func() { SetLogger(prev) }
}

func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func helper() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return helpers
}

func Debug(msg string, fields ...zap.Field) { helper().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { helper().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { helper().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { helper().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { helper().Fatal(msg, fields...) }

func Sync() error {
	return Logger().Sync()
}
