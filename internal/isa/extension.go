// Package isa maps x86 instruction mnemonics to the SIMD instruction set
// extension that introduced them.
package isa

import (
	"fmt"
	"strings"
)

// Extension is an x86 SIMD instruction set extension. The zero value None
// marks a mnemonic that is not a SIMD instruction.
type Extension uint8

const (
	None Extension = iota
	SSE
	SSE2
	SSE3
	SSSE3
	SSE4
	AVX
	AVX512
)

// MaxExtension is the highest Extension value. Arrays indexed by Extension
// are sized MaxExtension+1.
const MaxExtension = AVX512

var extensionNames = [...]string{
	None:   "none",
	SSE:    "SSE",
	SSE2:   "SSE2",
	SSE3:   "SSE3",
	SSSE3:  "SSSE3",
	SSE4:   "SSE4",
	AVX:    "AVX",
	AVX512: "AVX-512",
}

// Extensions returns every SIMD extension in canonical order.
func Extensions() []Extension {
	return []Extension{SSE, SSE2, SSE3, SSSE3, SSE4, AVX, AVX512}
}

func (e Extension) String() string {
	if int(e) < len(extensionNames) {
		return extensionNames[e]
	}
	return fmt.Sprintf("Extension(%d)", uint8(e))
}

// Valid reports whether e names a SIMD extension.
func (e Extension) Valid() bool {
	return e > None && e <= MaxExtension
}

// ParseExtension resolves a canonical extension name. Matching ignores case
// and accepts "AVX512" for "AVX-512".
func ParseExtension(name string) (Extension, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "AVX512" {
		return AVX512, nil
	}
	for _, e := range Extensions() {
		if extensionNames[e] == n {
			return e, nil
		}
	}
	return None, fmt.Errorf("unknown ISA extension %q", name)
}
