package harness

import (
	"context"
	"fmt"
	"strings"
)

// Translator produces a reference translation for a prompt.
type Translator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PlaceholderResponse is what StubTranslator returns when no response is
// configured.
const PlaceholderResponse = `# LLM-generated Mojo code for comparison
from memory import UnsafePointer
from collections import List

fn placeholder_function():
    # This is a placeholder LLM response
    # Real implementation would call actual LLM API
    print("LLM generated code")
`

// StubTranslator returns a fixed response for every prompt and records the
// prompts it was given.
//
// Thread-safety: not safe for concurrent use.
type StubTranslator struct {
	Response string
	// Err, when set, is returned instead of a response.
	Err     error
	Prompts []string
}

// Complete implements Translator.
func (s *StubTranslator) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return "", s.Err
	}
	if s.Response == "" {
		return PlaceholderResponse, nil
	}
	return s.Response, nil
}

// BuildPrompt returns the translation prompt for source. The prompt ends
// with an open ```mojo fence so that the reply continues a code block.
func BuildPrompt(source string) string {
	return fmt.Sprintf("Translate the following Rust code to equivalent Mojo code. \n"+
		"Focus on:\n"+
		"1. Preserving the original functionality and semantics\n"+
		"2. Using idiomatic Mojo constructs\n"+
		"3. Maintaining performance characteristics\n"+
		"4. Ensuring memory safety where possible\n"+
		"\n"+
		"Rust code:\n"+
		"```rust\n"+
		"%s\n"+
		"```\n"+
		"\n"+
		"Please provide only the Mojo code translation, without explanations:\n"+
		"```mojo\n", source)
}

const (
	mojoFence = "```mojo"
	fence     = "```"
)

// ExtractMojoCode returns the contents of the first ```mojo block in
// response, trimmed. An unterminated block runs to the end of the response.
// Without a block the whole response is returned, trimmed.
func ExtractMojoCode(response string) string {
	start := strings.Index(response, mojoFence)
	if start < 0 {
		return strings.TrimSpace(response)
	}
	body := response[start+len(mojoFence):]
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
