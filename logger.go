package tokengate

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Logger is the structured logging interface used throughout the gate.
// It is satisfied directly by *log/slog.Logger; adapters below cover
// logrus, zap, and zerolog. Args are alternating key/value pairs.
//
// By default the gate does not log; pass a logger via WithLogger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogrusLogger returns a Logger backed by a logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLogger{l}
}

type logrusLogger struct{ l logrus.FieldLogger }

func (a *logrusLogger) Debug(msg string, args ...any) { a.l.WithFields(logrusFields(args)).Debug(msg) }
func (a *logrusLogger) Info(msg string, args ...any)  { a.l.WithFields(logrusFields(args)).Info(msg) }
func (a *logrusLogger) Warn(msg string, args ...any)  { a.l.WithFields(logrusFields(args)).Warn(msg) }
func (a *logrusLogger) Error(msg string, args ...any) { a.l.WithFields(logrusFields(args)).Error(msg) }

func logrusFields(args []any) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[argKey(args[i])] = args[i+1]
	}
	return fields
}

// NewZapLogger returns a Logger backed by a zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLogger{l}
}

type zapLogger struct{ l *zap.SugaredLogger }

func (a *zapLogger) Debug(msg string, args ...any) { a.l.Debugw(msg, args...) }
func (a *zapLogger) Info(msg string, args ...any)  { a.l.Infow(msg, args...) }
func (a *zapLogger) Warn(msg string, args ...any)  { a.l.Warnw(msg, args...) }
func (a *zapLogger) Error(msg string, args ...any) { a.l.Errorw(msg, args...) }

// NewZerologLogger returns a Logger backed by a zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{l}
}

type zerologLogger struct{ l zerolog.Logger }

func (a *zerologLogger) Debug(msg string, args ...any) { zerologEmit(a.l.Debug(), msg, args) }
func (a *zerologLogger) Info(msg string, args ...any)  { zerologEmit(a.l.Info(), msg, args) }
func (a *zerologLogger) Warn(msg string, args ...any)  { zerologEmit(a.l.Warn(), msg, args) }
func (a *zerologLogger) Error(msg string, args ...any) { zerologEmit(a.l.Error(), msg, args) }

func zerologEmit(e *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		e = e.Interface(argKey(args[i]), args[i+1])
	}
	e.Msg(msg)
}

func argKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
