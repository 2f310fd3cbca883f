package compiler

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes facade errors.
type ErrorKind string

const (
	// KindParse indicates the input is not valid Rust.
	KindParse ErrorKind = "PARSE_ERROR"

	// KindCodegen indicates emission could not render the IR.
	KindCodegen ErrorKind = "CODEGEN_ERROR"

	// KindIO indicates reading the input file failed.
	KindIO ErrorKind = "IO_ERROR"

	// KindUnsupported indicates a construct the compiler declines to
	// translate under the strict policy.
	KindUnsupported ErrorKind = "UNSUPPORTED_FEATURE"

	// KindInternal indicates a broken compiler invariant.
	KindInternal ErrorKind = "INTERNAL_ERROR"
)

// Stage names the pipeline stage an error came from.
type Stage string

const (
	StageRead     Stage = "read"
	StageLower    Stage = "lower"
	StageValidate Stage = "validate"
	StagePolicy   Stage = "policy"
	StageEmit     Stage = "emit"
	StageAnalyze  Stage = "analyze"
)

var kindPrefix = map[ErrorKind]string{
	KindParse:       "failed to parse Rust code",
	KindCodegen:     "failed to generate Mojo code",
	KindIO:          "I/O error",
	KindUnsupported: "unsupported Rust feature",
	KindInternal:    "internal compiler error",
}

// Error is the single error type returned by the facade. Err holds the
// stage-local failure, if any.
type Error struct {
	Kind   ErrorKind
	Stage  Stage
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", kindPrefix[e.Kind], e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, stage Stage, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Detail: err.Error(), Err: err}
}

func kindOf(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsParseError reports whether err is a facade parse error.
func IsParseError(err error) bool { return kindOf(err, KindParse) }

// IsCodegenError reports whether err is a facade codegen error.
func IsCodegenError(err error) bool { return kindOf(err, KindCodegen) }

// IsIOError reports whether err is a facade I/O error.
func IsIOError(err error) bool { return kindOf(err, KindIO) }

// IsUnsupported reports whether err rejects an unsupported construct.
func IsUnsupported(err error) bool { return kindOf(err, KindUnsupported) }

// IsInternal reports whether err is an internal compiler error.
func IsInternal(err error) bool { return kindOf(err, KindInternal) }
