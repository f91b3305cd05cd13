package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the diagnostic logger. format is "text" or "json"; level
// is any logrus level name.
func NewLogger(level, format string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return l, nil
}

// HoldOutput buffers everything l writes until the returned release func is
// called, which restores the previous output and flushes the buffer to it.
// Full-screen views use this to keep log lines from drawing over them.
func HoldOutput(l *logrus.Logger) (release func()) {
	var held bytes.Buffer
	prev := l.Out
	l.SetOutput(&held)

	return func() {
		// SetOutput takes the logger lock, so no write to held is in flight afterwards
		l.SetOutput(prev)
		_, _ = held.WriteTo(prev)
	}
}
