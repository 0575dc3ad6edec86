// Package logger configures the process logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config selects the level and format of log output.
type Config struct {
	// Level is a logrus level name: debug, info, warn, error.
	Level string
	// Format is "text" or "json".
	Format string
	// Output defaults to stderr.
	Output io.Writer
}

var (
	mu     sync.RWMutex
	global = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)

	return l
}

// Setup builds a logger from cfg and makes it the one returned by L.
func Setup(cfg Config) (*logrus.Logger, error) {
	l := logrus.New()

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}

		level = parsed
	}

	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", cfg.Format)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l.SetOutput(out)

	mu.Lock()
	global = l
	mu.Unlock()

	return l, nil
}

// L returns the configured logger.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return global
}
