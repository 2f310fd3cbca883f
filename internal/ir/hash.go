package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DomainCompile is the domain prefix for compile cache keys.
// The version suffix allows a future change of key layout.
const DomainCompile = "rust2mojo/compile/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CompileKey returns the content-addressed cache key for translating source
// under the given metadata and unsupported-construct policy.
//
// Emission is a pure function of these inputs and IRVersion, so equal keys
// imply byte-identical output. SourceFile is excluded: the same text
// compiled from two paths yields the same Mojo code.
//
// Source bytes are hashed as-is, without NFC normalisation: string literal
// contents reach the output verbatim.
func CompileKey(source string, meta Metadata, policy string) string {
	var buf []byte
	for _, part := range []string{IRVersion, meta.RustEdition, meta.TargetMojoVersion, policy, source} {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(part)))
		buf = append(buf, part...)
	}
	return hashWithDomain(DomainCompile, buf)
}
