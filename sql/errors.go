package sql

import "errors"

// Sentinel errors surfaced by the lexer, parser, and VM. The REPL maps
// these to short human strings. ErrColumnNotFound comes from the VM;
// the others come from the lexer and parser.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrInvalidSyntax   = errors.New("invalid syntax")
	ErrIntegerOverflow = errors.New("integer literal overflows 64 bits")
	ErrColumnNotFound  = errors.New("column not found")
)
