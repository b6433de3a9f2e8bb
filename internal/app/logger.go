package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Logger is the component-tagged logger shared by every subsystem.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct{ w io.Writer }

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	writeLog(l.w, "INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	writeLog(l.w, "ERROR", component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}

// SlogLogger forwards to a structured logger, carrying the component as an
// attribute. Its Slog value can be handed to libraries that log via slog.
type SlogLogger struct{ Slog *slog.Logger }

// NewSlogLogger writes text records to w; debug lowers the level to Debug.
func NewSlogLogger(w io.Writer, debug bool) SlogLogger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return SlogLogger{Slog: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

func (l SlogLogger) Infof(component string, format string, args ...interface{}) {
	l.Slog.Info(fmt.Sprintf(format, args...), "component", component)
}
func (l SlogLogger) Errorf(component string, format string, args ...interface{}) {
	l.Slog.Error(fmt.Sprintf(format, args...), "component", component)
}
