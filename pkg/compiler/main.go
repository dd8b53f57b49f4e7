// Package compiler provides the lexer, parser, and code generator for
// single-line integer arithmetic expressions, targeting x86-64 assembly in
// Intel syntax.
//
// Pipeline: expression text → Lex → Parse → Generate → assembly text
package compiler
