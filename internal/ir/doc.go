// Package ir defines the intermediate representation shared by lowering and
// emission: a typed tree describing a single Rust translation unit.
//
// This package contains type definitions and small read-only helpers only.
// All other compiler packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Every node family is a sealed interface (unexported marker method), so
//     the set of variants is closed and type switches can be exhaustive.
//   - Nodes are plain values owned by their parent; there are no back links.
//   - A CompilationUnit is never mutated after lowering returns it, which
//     makes it safe to share across goroutines.
//   - Constructs the lowering cannot model are represented explicitly by
//     Unsupported, never by a fabricated literal.
package ir
