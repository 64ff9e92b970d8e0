package contract

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats supported by NewLogger.
const (
	ConsoleLogFormat = "console"
	JSONLogFormat    = "json"
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string // debug, info, warn, error
	Format     string // console or json
	OutputPath string // stderr, stdout, or file path
}

// DefaultLoggerConfig is used until the configuration has been loaded.
var DefaultLoggerConfig = LoggerConfig{Level: "warn", Format: ConsoleLogFormat, OutputPath: "stderr"}

var current atomic.Pointer[zap.Logger]

// NewLogger creates a new structured logger.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == JSONLogFormat {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var writeSyncer zapcore.WriteSyncer
	switch cfg.OutputPath {
	case "stderr", "":
		writeSyncer = zapcore.AddSync(os.Stderr)
	case "stdout":
		writeSyncer = zapcore.AddSync(os.Stdout)
	default:
		if dir := filepath.Dir(cfg.OutputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		file, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		writeSyncer = zapcore.AddSync(file)
	}

	var encoder zapcore.Encoder
	if cfg.Format == JSONLogFormat {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// SetLogger replaces the process logger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Logger returns the process logger, building the default one on first use.
func Logger() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	l, err := NewLogger(DefaultLoggerConfig)
	if err != nil {
		l = zap.NewNop()
	}
	current.CompareAndSwap(nil, l)
	return current.Load()
}
