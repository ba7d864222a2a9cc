// Package logging builds the go-kit logger shared by the commands and the server.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ssargent/eflrscan/pkg/config"
)

// New returns a logger writing to w in the configured format, filtered at
// the configured level
func New(cfg config.Logging, w io.Writer) (log.Logger, error) {
	var logger log.Logger
	switch strings.ToLower(cfg.Format) {
	case "", "logfmt":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	case "json":
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	allow, err := levelOption(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger = level.NewFilter(logger, allow)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)
	return logger, nil
}

func levelOption(name string) (level.Option, error) {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("unknown log level %q", name)
}
