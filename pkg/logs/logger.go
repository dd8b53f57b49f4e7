// Package logs builds the slog logger shared by the exprcc command.
package logs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type Options struct {
	Level   string    // debug, info, warn or error; empty means warn
	Writer  io.Writer // terminal output; nil means os.Stderr
	File    string    // optional JSON log file, appended to
	Journal bool      // also send records to the systemd journal
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Errorf("unknown log level %q", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger fanning records out to every configured sink. The
// returned Closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	leveler := new(slog.LevelVar)
	leveler.Set(level)

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	var handlers []slog.Handler

	terminalHandler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: leveler,
	})
	handlers = append(handlers, terminalHandler)

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open log file")
		}
		closer = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: leveler,
		}))
	}

	if opts.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: leveler,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// toJournalKey turns an attribute key into a valid journal field name.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
