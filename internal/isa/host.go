package isa

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HostSupports reports whether the CPU running this process implements ext.
// AVX covers AVX only; the AVX2 and FMA mnemonics grouped under it may still
// be missing on early AVX parts.
func HostSupports(ext Extension) bool {
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "386" {
		return false
	}
	switch ext {
	case SSE:
		// amd64 guarantees SSE2, and SSE2 implies SSE.
		return runtime.GOARCH == "amd64" || cpu.X86.HasSSE2
	case SSE2:
		return runtime.GOARCH == "amd64" || cpu.X86.HasSSE2
	case SSE3:
		return cpu.X86.HasSSE3
	case SSSE3:
		return cpu.X86.HasSSSE3
	case SSE4:
		return cpu.X86.HasSSE41 && cpu.X86.HasSSE42
	case AVX:
		return cpu.X86.HasAVX
	case AVX512:
		return cpu.X86.HasAVX512F
	}
	return false
}
