package compiler

import (
	"log/slog"
	"runtime"
)

// Options controls a single Compile call. The zero value is usable.
type Options struct {
	// Entry is the global symbol the program is emitted under.
	// Empty means DefaultEntry().
	Entry string

	// CheckDivZero rejects divisions by the literal 0 at compile time
	// instead of leaving them to fault in the generated program.
	CheckDivZero bool

	Logger *slog.Logger
}

// DefaultEntry is the C entry point name of the host platform.
func DefaultEntry() string {
	if runtime.GOOS == "darwin" {
		return "_main"
	}
	return "main"
}

// Compile runs the whole pipeline over src and returns the assembly program.
// Errors are returned as produced by the failing stage (*LexError,
// *ParseError, *DivZeroError) so callers can pass them to Diagnose.
func Compile(src string, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	entry := opts.Entry
	if entry == "" {
		entry = DefaultEntry()
	}

	tokens, err := Lex(src)
	if err != nil {
		logger.Debug("lex failed", "err", err)
		return "", err
	}
	logger.Debug("lexed", "tokens", len(tokens))

	ast, err := Parse(tokens)
	if err != nil {
		logger.Debug("parse failed", "err", err)
		return "", err
	}
	logger.Debug("parsed", "ast", ast.String())

	if opts.CheckDivZero {
		if err := CheckDivZero(ast); err != nil {
			logger.Debug("check failed", "err", err)
			return "", err
		}
	}

	instrs, err := Generate(ast)
	if err != nil {
		return "", err
	}
	logger.Debug("generated", "instructions", len(instrs), "entry", entry)

	return Program(entry, instrs), nil
}
