package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sarchlab/bfasm/config"
	"github.com/sarchlab/bfasm/core"
)

func setupLogging(cfg config.Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		logger := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
		}
		atexit.Register(func() {
			logger.Close()
		})
		w = logger
	}

	slog.SetDefault(slog.New(newHandler(w, level)))

	return nil
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey {
				return a
			}

			if l, ok := a.Value.Any().(slog.Level); ok && l <= core.LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}

			return a
		},
	})
}
