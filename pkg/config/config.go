// Package config loads exprcc settings from CUE files.
//
// A settings file looks like:
//
//	entry:          "_main"
//	check_div_zero: true
//	log: {
//		level: "debug"
//		file:  "/tmp/exprcc.log"
//	}
package config

import (
	"os"

	"github.com/pkg/errors"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "exprcc.cue"

const Schema = `
entry?: string & != ""
check_div_zero?: bool
log?: close({
	level?: "debug" | "info" | "warn" | "error"
	file?: string & != ""
	journal?: bool
})
history?: string
`

type Config struct {
	Entry        string
	CheckDivZero bool
	Log          Log
	History      string
}

type Log struct {
	Level   string
	File    string
	Journal bool
}

func Default() Config {
	return Config{
		Log: Log{
			Level: "warn",
		},
	}
}

// Config decodes every known key from the loader's files, earlier files
// taking precedence, and fills the rest from Default.
func (l Loader) Config() (Config, error) {
	cfg := Default()
	fields := []struct {
		path   string
		target any
	}{
		{"entry", &cfg.Entry},
		{"check_div_zero", &cfg.CheckDivZero},
		{"log.level", &cfg.Log.Level},
		{"log.file", &cfg.Log.File},
		{"log.journal", &cfg.Log.Journal},
		{"history", &cfg.History},
	}
	for _, f := range fields {
		if err := l.AssignFirst(f.path, f.target); err != nil && !errors.Is(err, ErrValueNotFound) {
			return Config{}, err
		}
	}
	return cfg, nil
}

// Discover returns the config files to read: explicit if set, otherwise
// DefaultFile when it exists in the working directory.
func Discover(explicit string) ([]string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, errors.Wrap(err, "config")
		}
		return []string{explicit}, nil
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return []string{DefaultFile}, nil
	}
	return nil, nil
}
