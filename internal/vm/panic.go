package vm

import (
	"fmt"
	"strings"

	"flow/internal/source"
)

// PanicCode identifies the type of evaluation fault.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicDivisionByZero  PanicCode = 1001 // VM1001: right operand of '/' is zero
	PanicUnsupportedNode PanicCode = 1002 // VM1002: node kind without evaluation rule (Unary)
	PanicUnknownNode     PanicCode = 1003 // VM1003: nil or foreign expression
	PanicInvalidOperator PanicCode = 1004 // VM1004: binary operator is not + - * /
	PanicMissingValue    PanicCode = 1005 // VM1005: literal without a value (synthetic token)
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// Error is an evaluation fault. It is returned as an error value, never as a diagnostic.
type Error struct {
	Code    PanicCode
	Message string
	Span    source.Span // узел или оператор, на котором произошёл сбой
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("panic %s: %s", e.Code, e.Message)
}

// FormatWithFiles formats the fault with resolved file:line:col information.
func (e *Error) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder

	// Header: panic VM1001: <message>
	fmt.Fprintf(&sb, "panic %s: %s\n", e.Code, e.Message)

	// Location: at <file>:<line>:<col>
	sb.WriteString("at ")
	sb.WriteString(formatSpan(e.Span, files))
	sb.WriteString("\n")

	return sb.String()
}

// formatSpan formats a span as "file:line:col" or "<no-span>" when it cannot be resolved.
func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

func makeError(code PanicCode, span source.Span, msg string) *Error {
	return &Error{Code: code, Message: msg, Span: span}
}

func divisionByZero(span source.Span) *Error {
	return makeError(PanicDivisionByZero, span, "Division by zero")
}

func unsupportedNode(what string, span source.Span) *Error {
	return makeError(PanicUnsupportedNode, span, fmt.Sprintf("unsupported expression: %s", what))
}

func unknownNode(what string) *Error {
	return makeError(PanicUnknownNode, source.Span{}, fmt.Sprintf("unknown expression: %s", what))
}

func invalidOperator(what string, span source.Span) *Error {
	return makeError(PanicInvalidOperator, span, fmt.Sprintf("invalid binary operator: %s", what))
}

func missingValue(span source.Span) *Error {
	return makeError(PanicMissingValue, span, "literal has no value")
}
