package ir

// Version constants for the IR schema and the translator.
const (
	// IRVersion is the IR schema version. It participates in compile cache
	// keys, so bump it whenever lowering or emission output changes.
	IRVersion = "1"

	// CompilerVersion is the rust2mojo release version.
	CompilerVersion = "0.1.0"

	// DefaultRustEdition is the source language edition assumed by default.
	DefaultRustEdition = "2021"

	// DefaultMojoVersion is the emission target assumed by default.
	DefaultMojoVersion = "24.5"
)
