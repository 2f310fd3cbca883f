package syntax

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Error is a lexical or syntactic error with a 1-based source position.
// Col counts characters, not bytes.
type Error struct {
	Offset int
	Line   int
	Col    int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsError reports whether err is or wraps a *Error.
func IsError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}

func newError(src string, off int, format string, args ...any) *Error {
	line, col := Position(src, off)
	return &Error{Offset: off, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// Position converts a byte offset in src into a 1-based line and column.
// Offsets past the end clamp to the end of src.
func Position(src string, off int) (line, col int) {
	if off > len(src) {
		off = len(src)
	}
	line, col = 1, 1
	for i := 0; i < off; {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i += size
	}
	return line, col
}
