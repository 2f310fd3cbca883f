// Package harness compares rust2mojo output with a reference translation
// and reports how close the two are.
//
// The harness treats the compiler as a black box that turns Rust source
// text into Mojo source text. Reference translations come from a
// Translator; the only implementation shipped is StubTranslator, which
// returns a canned response. No network client exists.
//
// # Case Files
//
// Cases are defined in YAML files with the following structure:
//
//	name: smoke
//	description: "Basic translations"
//	cases:
//	  - name: hello
//	    source: |
//	      fn main() { println!("Hello"); }
//	    expect:
//	      contains: ["fn main():"]
//	      not_contains: ["rust2mojo_unsupported"]
//	  - name: from_file
//	    file: programs/geometry.rs
//	    reference: |
//	      fn main():
//	          pass
//	  - name: broken
//	    source: "fn broken("
//	    expect:
//	      error: true
//	      error_contains: "failed to parse"
//
// Unknown fields are rejected so that typos surface as load errors. A case
// names its Rust input either inline (source) or by path relative to the
// case file (file). When reference is set it replaces the translator output.
//
// # Scoring
//
// Structural similarity is the Jaccard overlap of the line patterns found
// in both outputs (function_definition, struct_definition, conditional,
// loop, assignment), and 1.0 when neither output has any. Semantic and
// performance similarity are fixed at 0.8 and 0.75 until real analyses
// exist. The overall score is the mean of the three.
//
// # Deterministic Runs
//
// Run IDs come from an IDGenerator (UUIDv7 by default) and timestamps from
// a Clock. Tests substitute testutil.SequenceIDGenerator and
// testutil.DeterministicClock so that stored runs and reports are
// byte-identical across executions.
package harness
