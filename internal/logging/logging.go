// Package logging builds the logrus logger shared by the nthderiv commands.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Options struct {
	Level  string
	Format Format
	Output io.Writer
	Colors bool
}

// New returns a logger configured from opts. An empty level means info and
// a nil Output means stderr.
func New(opts Options) (*logrus.Logger, error) {
	l := logrus.New()
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	l.SetLevel(level)

	switch opts.Format {
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case FormatText, "":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
			ForceColors:     opts.Colors,
			DisableColors:   !opts.Colors,
		})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", opts.Format)
	}
	return l, nil
}
