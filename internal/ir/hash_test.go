package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileKeyDeterminism(t *testing.T) {
	meta := NewMetadata()
	k1 := CompileKey("fn main() {}", meta, "best_effort")
	k2 := CompileKey("fn main() {}", meta, "best_effort")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64, "hex-encoded SHA-256")
}

func TestCompileKeyChangesWithInputs(t *testing.T) {
	base := CompileKey("fn main() {}", NewMetadata(), "best_effort")

	tests := []struct {
		name   string
		source string
		meta   Metadata
		policy string
	}{
		{"source", "fn main() { }", NewMetadata(), "best_effort"},
		{"edition", "fn main() {}", Metadata{RustEdition: "2018", TargetMojoVersion: DefaultMojoVersion}, "best_effort"},
		{"target", "fn main() {}", Metadata{RustEdition: DefaultRustEdition, TargetMojoVersion: "24.6"}, "best_effort"},
		{"policy", "fn main() {}", NewMetadata(), "strict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, CompileKey(tt.source, tt.meta, tt.policy))
		})
	}
}

func TestCompileKeyIgnoresSourceFile(t *testing.T) {
	a := NewMetadata()
	b := NewMetadata()
	b.SourceFile = "src/main.rs"
	assert.Equal(t, CompileKey("fn f() {}", a, "strict"), CompileKey("fn f() {}", b, "strict"))
}

func TestCompileKeyFieldBoundaries(t *testing.T) {
	// Length prefixes keep shifted field contents from colliding.
	a := CompileKey("x", Metadata{RustEdition: "20", TargetMojoVersion: "21"}, "p")
	b := CompileKey("x", Metadata{RustEdition: "2", TargetMojoVersion: "021"}, "p")
	assert.NotEqual(t, a, b)
}

func TestCompileKeyDoesNotNormaliseSource(t *testing.T) {
	composed := "fn f() { let s = \"\u00e9\"; }"
	decomposed := "fn f() { let s = \"e\u0301\"; }"
	assert.NotEqual(t,
		CompileKey(composed, NewMetadata(), "best_effort"),
		CompileKey(decomposed, NewMetadata(), "best_effort"))
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	h := sha256.New()
	h.Write([]byte("domain"))
	h.Write([]byte{0x00})
	h.Write([]byte("data"))
	expected := hex.EncodeToString(h.Sum(nil))

	assert.Equal(t, expected, hashWithDomain("domain", []byte("data")))
	assert.NotEqual(t, hashWithDomain("doma", []byte("indata")), hashWithDomain("domain", []byte("data")))
}
