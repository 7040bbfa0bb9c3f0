// Package logger provides the relkit.Logger implementations used by the
// command line tools.
package logger

import (
	"io"
	"log"

	"github.com/pilosa/relkit"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewStandardLogger returns a Logger which prints Printf messages to w and
// drops Debugf messages.
func NewStandardLogger(w io.Writer) relkit.Logger {
	return relkit.StdLogger{Logger: log.New(w, "", log.LstdFlags)}
}

// NewVerboseLogger returns a Logger which prints both Printf and Debugf
// messages to w.
func NewVerboseLogger(w io.Writer) relkit.Logger {
	return relkit.VerboseLogger{Logger: log.New(w, "", log.LstdFlags)}
}

// Zap adapts a zap.Logger to relkit.Logger. Printf logs at info level and
// Debugf at debug level.
type Zap struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps l.
func NewZapLogger(l *zap.Logger) *Zap {
	return &Zap{s: l.Sugar()}
}

// NewJSONLogger returns a Zap logger writing JSON lines to w. Debug messages
// are only written if verbose is set.
func NewJSONLogger(w io.Writer, verbose bool) *Zap {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	return NewZapLogger(zap.New(core))
}

// Printf implements relkit.Logger.
func (z *Zap) Printf(format string, v ...interface{}) {
	z.s.Infof(format, v...)
}

// Debugf implements relkit.Logger.
func (z *Zap) Debugf(format string, v ...interface{}) {
	z.s.Debugf(format, v...)
}

// With returns a Zap logger which adds the key value pairs to every entry.
func (z *Zap) With(keysAndValues ...interface{}) *Zap {
	return &Zap{s: z.s.With(keysAndValues...)}
}

// Sync flushes buffered entries.
func (z *Zap) Sync() error {
	return z.s.Sync()
}
