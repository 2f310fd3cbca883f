package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator returns UUID-shaped run identifiers numbered from 1.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same scenario with a fresh generator produces the same run IDs.
//
// Thread-safety: Generate is safe for concurrent use.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDGenerator creates a generator. If prefix is empty the IDs
// look like "00000000-0000-7000-8000-000000000001".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	if prefix == "" {
		prefix = "00000000-0000-7000-8000-"
	}
	return &SequenceIDGenerator{prefix: prefix}
}

// Generate returns the next identifier.
//
// Implements harness.IDGenerator.
func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%012d", g.prefix, g.n)
}
