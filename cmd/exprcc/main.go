package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"exprcc/pkg/compiler"
	"exprcc/pkg/config"
	"exprcc/pkg/cpu"
	"exprcc/pkg/logs"
	"exprcc/pkg/utils"
)

const usageText = `usage: exprcc [flags] <expression>
       exprcc -repl [flags]

Compiles an arithmetic expression over + - * / to x86-64 assembly on stdout.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type settings struct {
	cfg     config.Config
	runProg bool
	repl    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("exprcc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "CUE settings file (default ./"+config.DefaultFile+" if present)")
	entry := fs.String("entry", "", "entry symbol (default "+compiler.DefaultEntry()+")")
	checkDivZero := fs.Bool("check-div-zero", false, "reject division by the literal 0 at compile time")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	runProg := fs.Bool("run", false, "execute the compiled program and print its return value instead of the assembly")
	repl := fs.Bool("repl", false, "read expressions interactively")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	paths, err := config.Discover(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "exprcc:", err)
		return 1
	}
	loader := config.NewLoader(paths, config.Schema)
	cfg, err := loader.Config()
	if err != nil {
		fmt.Fprintln(stderr, "exprcc:", err)
		return 1
	}

	// flags given on the command line override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "entry":
			cfg.Entry = *entry
		case "check-div-zero":
			cfg.CheckDivZero = *checkDivZero
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	logger, closer, err := logs.New(logs.Options{
		Level:   cfg.Log.Level,
		Writer:  stderr,
		File:    cfg.Log.File,
		Journal: cfg.Log.Journal,
	})
	if err != nil {
		fmt.Fprintln(stderr, "exprcc:", err)
		return 1
	}
	defer closer.Close()

	files, err := loader.Files()
	if err != nil {
		fmt.Fprintln(stderr, "exprcc:", err)
		return 1
	}
	for _, p := range files {
		if full, _, err := utils.GetPathInfo(p); err == nil {
			logger.Debug("loaded config", "path", full)
		}
	}

	s := settings{cfg: cfg, runProg: *runProg, repl: *repl}

	if s.repl {
		if fs.NArg() != 0 {
			fs.Usage()
			return 1
		}
		if err := runREPL(s, logger, stdout, stderr); err != nil {
			fmt.Fprintln(stderr, "exprcc:", err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	src := fs.Arg(0)
	var out bytes.Buffer
	if err := compileOne(s, logger, src, &out); err != nil {
		fmt.Fprintln(stderr, diagnose(stderr, src, err))
		return 1
	}
	// nothing reaches stdout unless the whole pipeline succeeded
	if _, err := stdout.Write(out.Bytes()); err != nil {
		return 1
	}
	return 0
}

// compileOne compiles src and writes either the assembly or, with -run, the
// value the program returns.
func compileOne(s settings, logger *slog.Logger, src string, w io.Writer) error {
	assembly, err := compiler.Compile(src, compiler.Options{
		Entry:        s.cfg.Entry,
		CheckDivZero: s.cfg.CheckDivZero,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if !s.runProg {
		_, err := io.WriteString(w, assembly)
		return err
	}

	value, err := execute(assembly, s.cfg.Entry)
	if err != nil {
		return err
	}
	logger.Debug("executed", "value", value, "exit_status", cpu.ExitStatus(value))
	_, err = fmt.Fprintln(w, value)
	return err
}

func execute(assembly, entry string) (int64, error) {
	if entry == "" {
		entry = compiler.DefaultEntry()
	}
	machine, err := cpu.Load(assembly)
	if err != nil {
		return 0, err
	}
	value, err := machine.Run(entry)
	if err != nil {
		return 0, errors.Wrap(err, "execute")
	}
	return value, nil
}

// diagnose renders err, in color when w is a terminal.
func diagnose(w io.Writer, src string, err error) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return compiler.DiagnoseColor(src, err)
	}
	return compiler.Diagnose(src, err)
}
