package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayout is used for all stored timestamps. Times are stored in UTC.
const timeLayout = time.RFC3339Nano

// marshalJSON encodes v without HTML escaping so that source text such as
// `a < b && c` is stored verbatim.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// marshalAnalysis converts an Analysis to JSON TEXT. Nil lists are stored
// as empty arrays.
func marshalAnalysis(a Analysis) (string, error) {
	norm := Analysis{
		Rust2MojoAdvantages: nonNil(a.Rust2MojoAdvantages),
		LLMAdvantages:       nonNil(a.LLMAdvantages),
		Suggestions:         nonNil(a.Suggestions),
		CorrectnessIssues:   nonNil(a.CorrectnessIssues),
	}
	data, err := marshalJSON(norm)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}

// unmarshalAnalysis parses JSON TEXT into an Analysis.
func unmarshalAnalysis(data string) (Analysis, error) {
	var a Analysis
	if data == "" || data == "{}" {
		return a, nil
	}
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return a, nil
}

// marshalFailures converts a failure list to JSON TEXT.
func marshalFailures(failures []string) (string, error) {
	data, err := marshalJSON(nonNil(failures))
	if err != nil {
		return "", fmt.Errorf("marshal failures: %w", err)
	}
	return data, nil
}

// unmarshalFailures parses JSON TEXT into a failure list. Returns an empty
// slice, never nil.
func unmarshalFailures(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var failures []string
	if err := json.Unmarshal([]byte(data), &failures); err != nil {
		return nil, fmt.Errorf("unmarshal failures: %w", err)
	}
	return nonNil(failures), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
