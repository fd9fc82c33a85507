// Package disasm decodes x86 machine code with x86asm and renders it as
// objdump-style listing lines.
package disasm

import (
	"fmt"
	"iter"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"simdscan/internal/binfmt"
)

// Inst is a simplified decoded instruction.
type Inst struct {
	VA   uint64 // virtual address of instruction
	Len  int    // encoded length in bytes
	Text string // AT&T syntax, "(bad)" when the bytes do not decode
	Op   string // mnemonic in lowercase
}

// Line renders the instruction the way objdump --no-show-raw-insn does.
func (i Inst) Line() string {
	return fmt.Sprintf("%8x:\t%s", i.VA, i.Text)
}

// Instructions decodes code loaded at base. Undecodable bytes yield a
// one-byte "(bad)" entry and decoding resumes at the next byte.
func Instructions(code []byte, base uint64, mode int, symname x86asm.SymLookup) iter.Seq[Inst] {
	return func(yield func(Inst) bool) {
		for off := 0; off < len(code); {
			pc := base + uint64(off)
			inst, err := x86asm.Decode(code[off:], mode)
			if err != nil || inst.Len == 0 || inst.Op == 0 {
				if !yield(Inst{VA: pc, Len: 1, Text: "(bad)"}) {
					return
				}
				off++
				continue
			}
			text := x86asm.GNUSyntax(inst, pc, symname)
			if !yield(Inst{VA: pc, Len: inst.Len, Text: text, Op: strings.ToLower(inst.Op.String())}) {
				return
			}
			off += inst.Len
		}
	}
}

// Listing produces the full textual disassembly of im: a file header, one
// header per section, a label line at each known function symbol and one
// line per instruction.
func Listing(im *binfmt.Image) iter.Seq[string] {
	symname := func(addr uint64) (string, uint64) {
		if name, ok := im.Symbols[addr]; ok {
			return name, addr
		}
		return "", 0
	}
	return func(yield func(string) bool) {
		header := []string{"", fmt.Sprintf("%s:     file format %s", im.Path, im.FormatName()), ""}
		for _, h := range header {
			if !yield(h) {
				return
			}
		}
		for _, sec := range im.Sections {
			if !yield("") || !yield(fmt.Sprintf("Disassembly of section %s:", sec.Name)) {
				return
			}
			for inst := range Instructions(sec.Data, sec.Addr, im.Mode, symname) {
				if name, ok := im.Symbols[inst.VA]; ok {
					if !yield("") || !yield(fmt.Sprintf("%016x <%s>:", inst.VA, name)) {
						return
					}
				}
				if !yield(inst.Line()) {
					return
				}
			}
		}
	}
}
