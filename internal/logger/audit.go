package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditOptions selects where audit records are written.
// An empty FilePath writes to stdout.
type AuditOptions struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewAuditLogger builds a logger that writes one bare JSON object per record:
// no level, message, caller or logger-generated time keys.
// The returned closer releases the rotating file, if any.
func NewAuditLogger(opts AuditOptions) (*zap.Logger, io.Closer) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		w, closer = lj, lj
	}
	return NewAuditLoggerTo(w), closer
}

// NewAuditLoggerTo builds an audit logger on an arbitrary writer.
func NewAuditLoggerTo(w io.Writer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		LineEnding: zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
