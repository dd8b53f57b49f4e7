package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"exprcc/pkg/compiler"
	"exprcc/pkg/utils"
)

func runREPL(s settings, logger *slog.Logger, stdout, stderr io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: utils.HistoryPath(s.cfg.History),
		Stdout:      stdout,
		Stderr:      stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	return replLoop(s, logger, rl.Readline, stdout, stderr)
}

// replLoop evaluates lines from readLine until it fails (Ctrl-C, Ctrl-D) or
// the user quits. Each line prints the assembly followed by "=> value".
func replLoop(s settings, logger *slog.Logger, readLine func() (string, error), stdout, stderr io.Writer) error {
	for {
		line, err := readLine()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":q", ":quit", ":exit":
			return nil
		}

		assembly, err := compiler.Compile(line, compiler.Options{
			Entry:        s.cfg.Entry,
			CheckDivZero: s.cfg.CheckDivZero,
			Logger:       logger,
		})
		if err != nil {
			fmt.Fprintln(stderr, diagnose(stderr, line, err))
			continue
		}
		fmt.Fprint(stdout, assembly)

		value, err := execute(assembly, s.cfg.Entry)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			continue
		}
		fmt.Fprintf(stdout, "=> %d\n", value)
	}
}
