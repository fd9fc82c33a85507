package disasm

import (
	"slices"
	"strings"
	"testing"

	"simdscan/internal/binfmt"
	"simdscan/internal/isa"
	"simdscan/internal/scan"
)

var code = []byte{
	0x66, 0x0f, 0x6f, 0xc1, // movdqa %xmm1,%xmm0
	0x0f, 0x28, 0xc1, // movaps %xmm1,%xmm0
	0x66, 0x0f, 0xef, 0xc0, // pxor %xmm0,%xmm0
	0x90, // nop
	0xc3, // ret
	0x0f, // truncated
}

func TestInstructions(t *testing.T) {
	var got []Inst
	for inst := range Instructions(code, 0x1000, 64, nil) {
		got = append(got, inst)
	}

	wantOps := []string{"movdqa", "movaps", "pxor", "nop", "ret", ""}
	if len(got) != len(wantOps) {
		t.Fatalf("decoded %d instructions, want %d: %+v", len(got), len(wantOps), got)
	}
	wantVA := []uint64{0x1000, 0x1004, 0x1007, 0x100b, 0x100c, 0x100d}
	for i, inst := range got {
		if !strings.HasPrefix(inst.Op, wantOps[i]) {
			t.Errorf("inst %d op = %q, want %q", i, inst.Op, wantOps[i])
		}
		if inst.VA != wantVA[i] {
			t.Errorf("inst %d VA = %#x, want %#x", i, inst.VA, wantVA[i])
		}
	}
	if got[0].Text != "movdqa %xmm1,%xmm0" {
		t.Errorf("movdqa text = %q", got[0].Text)
	}
	if last := got[len(got)-1]; last.Text != "(bad)" || last.Len != 1 {
		t.Errorf("truncated byte decoded as %+v", last)
	}
}

func TestInstructionsLonePrefix(t *testing.T) {
	tests := []struct {
		name string
		code []byte
	}{
		{"escape", []byte{0x0f}},
		{"operand size", []byte{0x66}},
		{"lock", []byte{0xf0}},
		{"rep", []byte{0xf3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Instructions(tt.code, 0x2000, 64, nil))
			if len(got) != 1 {
				t.Fatalf("decoded %d instructions, want 1: %+v", len(got), got)
			}
			if inst := got[0]; inst.Text != "(bad)" || inst.Op != "" || inst.Len != 1 || inst.VA != 0x2000 {
				t.Errorf("lone byte decoded as %+v", inst)
			}
		})
	}
}

func TestInstructionsStopsEarly(t *testing.T) {
	n := 0
	for range Instructions(code, 0, 64, nil) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d times after break", n)
	}
}

func TestInstLine(t *testing.T) {
	inst := Inst{VA: 0x1139, Text: "pxor %xmm0,%xmm0"}
	if got, want := inst.Line(), "    1139:\tpxor %xmm0,%xmm0"; got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func testImage() *binfmt.Image {
	return &binfmt.Image{
		Path:     "a.out",
		Format:   binfmt.ELF,
		Mode:     64,
		Sections: []binfmt.Section{{Name: ".text", Addr: 0x1000, Data: code}},
		Symbols:  map[uint64]string{0x1000: "kernel"},
	}
}

func TestListing(t *testing.T) {
	lines := slices.Collect(Listing(testImage()))

	for _, want := range []string{
		"a.out:     file format elf64-x86-64",
		"Disassembly of section .text:",
		"0000000000001000 <kernel>:",
		"    1000:\tmovdqa %xmm1,%xmm0",
		"    100d:\t(bad)",
	} {
		if !slices.Contains(lines, want) {
			t.Errorf("listing missing %q:\n%s", want, strings.Join(lines, "\n"))
		}
	}
}

func TestListingFeedsScanner(t *testing.T) {
	agg := scan.NewScanner(nil, scan.WithDetail(true)).Scan(Listing(testImage()))

	if got := agg.Count(isa.SSE); got != 1 {
		t.Errorf("SSE = %d, want 1", got)
	}
	if got := agg.Count(isa.SSE2); got != 2 {
		t.Errorf("SSE2 = %d, want 2", got)
	}
	if agg.Total() != 3 {
		t.Errorf("Total = %d, want 3", agg.Total())
	}
	// movdqa, movaps, pxor, nop, ret; headers, labels and (bad) are skipped.
	if agg.Instructions() != 5 {
		t.Errorf("Instructions = %d, want 5", agg.Instructions())
	}
}
