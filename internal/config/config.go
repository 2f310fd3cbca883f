// Package config loads rust2mojo configuration files written in CUE.
//
// A file is unified with an embedded schema (schema.cue). The schema is
// closed, supplies every default, and rejects unknown fields, so a loaded
// Config is always complete.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/rust2mojo/internal/compiler"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration.
type Config struct {
	Compiler   CompilerConfig   `json:"compiler"`
	Comparison ComparisonConfig `json:"comparison"`
}

// CompilerConfig selects compiler options.
type CompilerConfig struct {
	Edition     string `json:"edition"`
	Target      string `json:"target"`
	Unsupported string `json:"unsupported"`
}

// ComparisonConfig configures the reference translator used by the
// comparison harness.
type ComparisonConfig struct {
	Enabled     bool    `json:"enabled"`
	Model       string  `json:"model"`
	Endpoint    string  `json:"endpoint"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// Error is a configuration error with its CUE source position, if known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the configuration of an empty file.
func Default() *Config {
	cfg, err := Parse(nil, "default.cue")
	if err != nil {
		// the embedded schema is fixed at build time
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	return cfg
}

// Load reads and validates the CUE file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates CUE source against the schema and decodes it. filename is
// used in error positions only.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := def.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}
	return &cfg, nil
}

// CompilerOptions converts the compiler section into facade options.
func (c *Config) CompilerOptions() ([]compiler.Option, error) {
	policy, err := compiler.ParsePolicy(c.Compiler.Unsupported)
	if err != nil {
		return nil, &Error{Field: "compiler.unsupported", Message: err.Error()}
	}
	return []compiler.Option{
		compiler.WithEdition(c.Compiler.Edition),
		compiler.WithTarget(c.Compiler.Target),
		compiler.WithPolicy(policy),
	}, nil
}

// formatCUEError extracts the field path and position of the first CUE
// error.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "cue"
	if path := errors.Path(first); len(path) > 0 {
		field = strings.Join(path, ".")
	}
	ce := &Error{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
