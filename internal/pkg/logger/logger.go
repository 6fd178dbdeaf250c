package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doeshing/aicmd/internal/pkg/filesystem"
)

// Options controls where log lines go.
type Options struct {
	// Verbose lowers the level to debug and mirrors output to stderr.
	Verbose bool
	// File receives JSON log lines. Empty disables file output.
	File string
}

// ZapLogger adapts a zap.Logger to the ports.Logger field-map interface.
type ZapLogger struct {
	z *zap.Logger
}

// New builds a production zap logger from opts. With no file and no verbose
// flag the logger discards everything so stdout and stderr stay clean for the
// shell widget.
func New(opts Options) (*ZapLogger, error) {
	var outputs []string
	if opts.File != "" {
		path := filesystem.ExpandHome(opts.File)
		if err := filesystem.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		outputs = append(outputs, path)
	}
	if opts.Verbose {
		outputs = append(outputs, "stderr")
	}
	if len(outputs) == 0 {
		return NewNop(), nil
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = outputs
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &ZapLogger{z: z}, nil
}

// NewNop returns a logger that drops every entry.
func NewNop() *ZapLogger {
	return &ZapLogger{z: zap.NewNop()}
}

// Wrap adapts an existing zap logger.
func Wrap(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Debug(msg string, fields map[string]interface{}) {
	l.z.Debug(msg, toFields(fields)...)
}

func (l *ZapLogger) Info(msg string, fields map[string]interface{}) {
	l.z.Info(msg, toFields(fields)...)
}

func (l *ZapLogger) Warn(msg string, fields map[string]interface{}) {
	l.z.Warn(msg, toFields(fields)...)
}

func (l *ZapLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.z.Error(msg, append(toFields(fields), zap.Error(err))...)
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.z.Sync()
}

func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
