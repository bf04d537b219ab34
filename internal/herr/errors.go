// Package herr defines the error taxonomy shared across Hypo's packages.
//
// Every fallible boundary operation (parsing, provider lookups, hydration,
// change-chain application) wraps one of the sentinels below with
// fmt.Errorf("...: %w", ...) so callers can both errors.Is against a family
// and read a human message.
package herr

import (
	"errors"
	"strconv"
)

// Sentinel errors for programmatic checking via errors.Is.
var (
	ErrParseFailure        = errors.New("hypo: parse failure")
	ErrUnboundVariable     = errors.New("hypo: unbound type variable")
	ErrClasspathIncomplete = errors.New("hypo: classpath incomplete")
	ErrMissingDecorator    = errors.New("hypo: class data provider missing caching decorator")
	ErrDependencyCycle     = errors.New("hypo: hydration provider dependency cycle")
	ErrMergeConflict       = errors.New("hypo: unmergeable change conflict")
	ErrIO                  = errors.New("hypo: source read failure")
)

// Code is a machine-readable error classification for structured reporting,
// mirrored across CLI JSON output.
type Code string

const (
	CodeNone                Code = ""
	CodeParseFailure        Code = "ERR_PARSE"
	CodeUnboundVariable     Code = "ERR_UNBOUND_VAR"
	CodeClasspathIncomplete Code = "ERR_CLASSPATH"
	CodeMissingDecorator    Code = "ERR_MISSING_DECORATOR"
	CodeDependencyCycle     Code = "ERR_DEP_CYCLE"
	CodeMergeConflict       Code = "ERR_MERGE_CONFLICT"
	CodeIO                  Code = "ERR_IO"
	CodeUnknown             Code = "ERR_UNKNOWN"
)

// CodeFor classifies err against the known sentinels, defaulting to
// CodeUnknown for anything not wrapping one of them.
func CodeFor(err error) Code {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, ErrParseFailure):
		return CodeParseFailure
	case errors.Is(err, ErrUnboundVariable):
		return CodeUnboundVariable
	case errors.Is(err, ErrClasspathIncomplete):
		return CodeClasspathIncomplete
	case errors.Is(err, ErrMissingDecorator):
		return CodeMissingDecorator
	case errors.Is(err, ErrDependencyCycle):
		return CodeDependencyCycle
	case errors.Is(err, ErrMergeConflict):
		return CodeMergeConflict
	case errors.Is(err, ErrIO):
		return CodeIO
	default:
		return CodeUnknown
	}
}

// ParseError carries the offending text and the failing cursor index, as
// required by spec.md §7 for every parse-failure.
type ParseError struct {
	Input string
	Index int
	Msg   string
}

func (e *ParseError) Error() string {
	return "hypo: parse failure at index " + strconv.Itoa(e.Index) + " of " + strconv.Quote(e.Input) + ": " + e.Msg
}

func (e *ParseError) Unwrap() error { return ErrParseFailure }
