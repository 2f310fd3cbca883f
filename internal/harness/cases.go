package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CaseFile is a named collection of comparison cases.
type CaseFile struct {
	// Name identifies the suite in reports and stored runs.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	Cases []Case `yaml:"cases"`

	// Path is the file the cases were loaded from, if any.
	Path string `yaml:"-"`
}

// Case is one Rust program to translate and compare.
type Case struct {
	// Name uniquely identifies the case within its file.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Source is the inline Rust program.
	Source string `yaml:"source,omitempty"`

	// File is a path to a Rust program, relative to the case file.
	// After loading, Source holds its contents.
	File string `yaml:"file,omitempty"`

	// Reference, when set, replaces the translator's output.
	Reference string `yaml:"reference,omitempty"`

	Expect Expectation `yaml:"expect,omitempty"`
}

// Expectation lists what a case's translation must satisfy.
type Expectation struct {
	// Contains lists substrings the output must contain.
	Contains []string `yaml:"contains,omitempty"`

	// NotContains lists substrings the output must not contain.
	NotContains []string `yaml:"not_contains,omitempty"`

	// Error means the compiler must reject the source.
	Error bool `yaml:"error,omitempty"`

	// ErrorContains is a substring of the expected error message.
	// Implies Error.
	ErrorContains string `yaml:"error_contains,omitempty"`
}

// ExpectsError reports whether the case expects a compile failure.
func (e Expectation) ExpectsError() bool {
	return e.Error || e.ErrorContains != ""
}

// LoadCases reads and parses a case file. Case files named by a case are
// read relative to the case file's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is missing required fields.
func LoadCases(path string) (*CaseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	cf, err := ParseCases(data)
	if err != nil {
		return nil, err
	}
	cf.Path = path

	base := filepath.Dir(path)
	for i := range cf.Cases {
		c := &cf.Cases[i]
		if c.File == "" {
			continue
		}
		p := c.File
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("cases[%d] (%s): failed to read source file: %w", i, c.Name, err)
		}
		c.Source = string(src)
	}

	return cf, nil
}

// ParseCases parses case file YAML without resolving file references.
func ParseCases(data []byte) (*CaseFile, error) {
	var cf CaseFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateCaseFile(&cf); err != nil {
		return nil, fmt.Errorf("invalid case file: %w", err)
	}

	return &cf, nil
}

// validateCaseFile checks that required fields are present and valid.
func validateCaseFile(cf *CaseFile) error {
	if cf.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(cf.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]int, len(cf.Cases))
	for i, c := range cf.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if j, dup := seen[c.Name]; dup {
			return fmt.Errorf("cases[%d]: duplicate name %q (first used by cases[%d])", i, c.Name, j)
		}
		seen[c.Name] = i

		switch {
		case c.Source == "" && c.File == "":
			return fmt.Errorf("cases[%d] (%s): one of source or file is required", i, c.Name)
		case c.Source != "" && c.File != "":
			return fmt.Errorf("cases[%d] (%s): source and file are mutually exclusive", i, c.Name)
		}

		if c.Expect.ExpectsError() && c.Reference != "" {
			return fmt.Errorf("cases[%d] (%s): reference is meaningless for a case expected to fail", i, c.Name)
		}
		if c.Expect.ExpectsError() && (len(c.Expect.Contains) > 0 || len(c.Expect.NotContains) > 0) {
			return fmt.Errorf("cases[%d] (%s): contains/not_contains cannot be combined with error", i, c.Name)
		}
	}

	return nil
}
