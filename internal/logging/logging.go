package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects level, format and destination of the process logger.
type Options struct {
	Level  string // trace|debug|info|warn|error
	Format string // text|json
	Out    io.Writer
}

// New builds a logrus logger from opts. Empty fields fall back to info, text and stderr.
func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if opts.Out != nil {
		l.SetOutput(opts.Out)
	}

	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l.SetLevel(lv)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format: %s (use text|json)", opts.Format)
	}
	return l, nil
}
