package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Messages(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindParse, "failed to parse Rust code: boom"},
		{KindCodegen, "failed to generate Mojo code: boom"},
		{KindIO, "I/O error: boom"},
		{KindUnsupported, "unsupported Rust feature: boom"},
		{KindInternal, "internal compiler error: boom"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := &Error{Kind: tt.kind, Detail: "boom"}
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestError_Predicates(t *testing.T) {
	predicates := map[ErrorKind]func(error) bool{
		KindParse:       IsParseError,
		KindCodegen:     IsCodegenError,
		KindIO:          IsIOError,
		KindUnsupported: IsUnsupported,
		KindInternal:    IsInternal,
	}
	for kind := range predicates {
		err := fmt.Errorf("wrapped: %w", &Error{Kind: kind, Detail: "x"})
		for other, pred := range predicates {
			assert.Equal(t, kind == other, pred(err), "%s predicate on %s error", other, kind)
		}
	}
}

func TestError_PredicatesOnForeignErrors(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsParseError(err))
	assert.False(t, IsInternal(nil))
}

func TestNewError_WrapsCause(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "x.rs", Err: fs.ErrNotExist}
	err := newError(KindIO, StageRead, cause)

	assert.Equal(t, StageRead, err.Stage)
	assert.Equal(t, cause.Error(), err.Detail)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pe *fs.PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "x.rs", pe.Path)
}
