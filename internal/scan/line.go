// Package scan folds disassembly listings into per-extension SIMD counts.
package scan

import (
	"strconv"
	"strings"
)

// Line is one instruction parsed from a disassembly listing.
type Line struct {
	Addr     uint64
	Mnemonic string // lowercase
	Operands string
}

// prefixes are tokens objdump prints ahead of the mnemonic.
var prefixes = map[string]bool{
	"lock": true, "rep": true, "repe": true, "repz": true, "repne": true, "repnz": true,
	"data16": true, "data32": true, "addr16": true, "addr32": true,
	"notrack": true, "bnd": true, "xacquire": true, "xrelease": true,
	"cs": true, "ds": true, "es": true, "fs": true, "gs": true, "ss": true,
	"rex": true, "rex64": true,
}

// ParseLine extracts the instruction from one line of objdump-style output:
//
//	  401000:	66 0f 6f c1          	movdqa %xmm1,%xmm0
//	  401000:	movdqa %xmm1,%xmm0
//
// Labels, section headers, blank lines and byte-only continuation lines
// report ok == false.
func ParseLine(text string) (Line, bool) {
	s := strings.TrimLeft(text, " \t")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	colon := strings.IndexByte(s, ':')
	if colon <= 0 || colon+1 >= len(s) || !isHex(s[:colon]) {
		return Line{}, false
	}
	if c := s[colon+1]; c != ' ' && c != '\t' {
		return Line{}, false
	}
	addr, err := strconv.ParseUint(s[:colon], 16, 64)
	if err != nil {
		return Line{}, false
	}

	fields := strings.Fields(s[colon+1:])
	i := 0
	for i < len(fields) && isByteColumn(fields[i]) {
		i++
	}
	for i < len(fields) && isPrefix(fields[i]) {
		i++
	}
	if i >= len(fields) {
		return Line{}, false
	}

	mnemonic := strings.ToLower(fields[i])
	if !isMnemonic(mnemonic) {
		return Line{}, false
	}
	return Line{
		Addr:     addr,
		Mnemonic: mnemonic,
		Operands: strings.Join(fields[i+1:], " "),
	}, true
}

func isPrefix(tok string) bool {
	t := strings.ToLower(tok)
	if prefixes[t] || strings.HasPrefix(t, "rex.") {
		return true
	}
	// {vex}, {vex3}, {evex}, {disp32}, {load}, {store}
	return len(t) > 2 && t[0] == '{' && t[len(t)-1] == '}'
}

func isByteColumn(tok string) bool {
	return len(tok) == 2 && isHex(tok)
}

func isMnemonic(tok string) bool {
	if len(tok) < 2 || tok[0] < 'a' || tok[0] > 'z' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		c := tok[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
