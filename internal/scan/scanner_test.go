package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"simdscan/internal/isa"
)

// listing is a trimmed `objdump -d` excerpt mixing headers, labels, scalar
// code and SIMD from several extensions.
const listing = `
/tmp/a.out:     file format elf64-x86-64


Disassembly of section .text:

0000000000001139 <kernel>:
    1139:	55                   	push   %rbp
    113a:	48 89 e5             	mov    %rsp,%rbp
    113d:	66 0f 6f c1          	movdqa %xmm1,%xmm0
    1141:	66 0f ef c0          	pxor   %xmm0,%xmm0
    1145:	66 0f 6f d0          	movdqa %xmm0,%xmm2
    1149:	0f 58 c1             	addps  %xmm1,%xmm0
    114c:	66 0f 38 00 c1       	pshufb %xmm1,%xmm0
    1151:	c5 fc 28 c1          	vmovaps %ymm1,%ymm0
    1155:	c5 fd ef c0          	vpxor  %ymm0,%ymm0,%ymm0
    1159:	62 f3 7d 48 25 c0 ff 	vpternlogd $0xff,%zmm0,%zmm0,%zmm0
    1160:	c5 f8 77             	vzeroupper
    1163:	f2 48 0f 2a c7       	cvtsi2sd %rdi,%xmm0
    1168:	5d                   	pop    %rbp
    1169:	c3                   	ret
`

func splitListing(s string) []string {
	return strings.Split(s, "\n")
}

func TestScanListing(t *testing.T) {
	agg := NewScanner(nil, WithDetail(true)).ScanLines(splitListing(listing))

	want := map[isa.Extension]int{
		isa.SSE:    1,
		isa.SSE2:   4,
		isa.SSSE3:  1,
		isa.AVX:    3,
		isa.AVX512: 1,
	}
	for _, ext := range isa.Extensions() {
		if got := agg.Count(ext); got != want[ext] {
			t.Errorf("Count(%s) = %d, want %d", ext, got, want[ext])
		}
	}
	if agg.Total() != 10 {
		t.Errorf("Total() = %d, want 10", agg.Total())
	}
	if agg.Instructions() != 14 {
		t.Errorf("Instructions() = %d, want 14", agg.Instructions())
	}
	if agg.Lines() != len(splitListing(listing)) {
		t.Errorf("Lines() = %d, want %d", agg.Lines(), len(splitListing(listing)))
	}

	gotExts := agg.Extensions()
	wantExts := []isa.Extension{isa.SSE, isa.SSE2, isa.SSSE3, isa.AVX, isa.AVX512}
	if fmt.Sprint(gotExts) != fmt.Sprint(wantExts) {
		t.Errorf("Extensions() = %v, want %v", gotExts, wantExts)
	}

	sse2 := agg.Occurrences(isa.SSE2)
	wantSSE2 := []MnemonicCount{{"movdqa", 2}, {"cvtsi2sd", 1}, {"pxor", 1}}
	if fmt.Sprint(sse2) != fmt.Sprint(wantSSE2) {
		t.Errorf("Occurrences(SSE2) = %v, want %v", sse2, wantSSE2)
	}
}

func TestScanScenarios(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		summary map[isa.Extension]int
		detail  map[isa.Extension][]MnemonicCount
	}{
		{
			name:    "single avx move",
			lines:   []string{"  401000:\tvmovaps %xmm1,%xmm0"},
			summary: map[isa.Extension]int{isa.AVX: 1},
			detail:  map[isa.Extension][]MnemonicCount{isa.AVX: {{"vmovaps", 1}}},
		},
		{
			name: "sse2 detail",
			lines: []string{
				"  401000:\tmovdqa %xmm1,%xmm0",
				"  401004:\tpxor %xmm0,%xmm0",
				"  401008:\tmovdqa %xmm0,%xmm2",
			},
			summary: map[isa.Extension]int{isa.SSE2: 3},
			detail:  map[isa.Extension][]MnemonicCount{isa.SSE2: {{"movdqa", 2}, {"pxor", 1}}},
		},
		{
			name:    "only non-instruction lines",
			lines:   []string{"Disassembly of section .text:", ""},
			summary: map[isa.Extension]int{},
		},
		{
			name:    "scalar instruction",
			lines:   []string{"  401000:\tmov %rsp,%rbp"},
			summary: map[isa.Extension]int{},
		},
		{
			name:    "empty input",
			summary: map[isa.Extension]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewScanner(isa.Default, WithDetail(true)).ScanLines(tt.lines)

			total := 0
			for _, ext := range isa.Extensions() {
				if got := agg.Count(ext); got != tt.summary[ext] {
					t.Errorf("Count(%s) = %d, want %d", ext, got, tt.summary[ext])
				}
				total += tt.summary[ext]
				if got := agg.Occurrences(ext); fmt.Sprint(got) != fmt.Sprint(tt.detail[ext]) {
					t.Errorf("Occurrences(%s) = %v, want %v", ext, got, tt.detail[ext])
				}
			}
			if agg.Total() != total {
				t.Errorf("Total() = %d, want %d", agg.Total(), total)
			}
			if agg.HasSIMD() != (total > 0) {
				t.Errorf("HasSIMD() = %v, want %v", agg.HasSIMD(), total > 0)
			}
			if len(agg.Extensions()) != len(tt.summary) {
				t.Errorf("Extensions() = %v, want %d entries", agg.Extensions(), len(tt.summary))
			}
		})
	}
}

func TestScanInvariants(t *testing.T) {
	inputs := [][]string{
		splitListing(listing),
		{"  1:\tvaddps %ymm0,%ymm1,%ymm2", "  2:\tVADDPS %ymm0,%ymm1,%ymm2", "  3:\taddps %xmm0,%xmm1"},
		{"garbage", "  ff:\t(bad)", "  10:\tkmovw %k1,%eax", "  11:\tcrc32b %al,%eax"},
	}
	for i, lines := range inputs {
		agg := NewScanner(nil, WithDetail(true)).ScanLines(lines)

		sum := 0
		for _, ext := range isa.Extensions() {
			sum += agg.Count(ext)

			occ := agg.Occurrences(ext)
			occSum := 0
			for _, mc := range occ {
				occSum += mc.Count
			}
			if occSum != agg.Count(ext) {
				t.Errorf("input %d: %s occurrences sum %d, count %d", i, ext, occSum, agg.Count(ext))
			}
			if agg.UniqueMnemonics(ext) != len(occ) {
				t.Errorf("input %d: %s unique %d, occurrences %d", i, ext, agg.UniqueMnemonics(ext), len(occ))
			}
		}
		if sum != agg.Total() {
			t.Errorf("input %d: Total() = %d, sum of counts %d", i, agg.Total(), sum)
		}
		if agg.HasSIMD() != (sum > 0) {
			t.Errorf("input %d: HasSIMD() = %v with total %d", i, agg.HasSIMD(), sum)
		}
	}
}

func TestScanIgnoresCase(t *testing.T) {
	lower := NewScanner(nil, WithDetail(true)).ScanLines([]string{"  1:\tvmovaps %xmm1,%xmm0"})
	upper := NewScanner(nil, WithDetail(true)).ScanLines([]string{"  1:\tVMOVAPS %xmm1,%xmm0"})
	if !lower.Equal(upper) {
		t.Error("mnemonic case changed the result")
	}
}

func TestScanFoldsSizeSuffixes(t *testing.T) {
	agg := NewScanner(nil, WithDetail(true)).ScanLines([]string{
		"  1:\tcvtsi2sd %rdi,%xmm0",
		"  2:\tcvtsi2sdl (%rax),%xmm0",
		"  3:\tpopcnt %rdi,%rax",
		"  4:\tpopcntq (%rsi),%rax",
		"  5:\tcmpltpd %xmm1,%xmm0",
	})

	tests := []struct {
		ext    isa.Extension
		count  int
		unique int
		occ    string
	}{
		{isa.SSE2, 3, 2, "[{cvtsi2sd 2} {cmpltpd 1}]"},
		{isa.SSE4, 2, 1, "[{popcnt 2}]"},
	}
	for _, tt := range tests {
		t.Run(tt.ext.String(), func(t *testing.T) {
			if got := agg.Count(tt.ext); got != tt.count {
				t.Errorf("Count = %d, want %d", got, tt.count)
			}
			if got := agg.UniqueMnemonics(tt.ext); got != tt.unique {
				t.Errorf("UniqueMnemonics = %d, want %d", got, tt.unique)
			}
			if got := fmt.Sprint(agg.Occurrences(tt.ext)); got != tt.occ {
				t.Errorf("Occurrences = %s, want %s", got, tt.occ)
			}
		})
	}
}

func TestScanIsIdempotent(t *testing.T) {
	s := NewScanner(nil, WithDetail(true))
	lines := splitListing(listing)
	first := s.ScanLines(lines)
	second := s.ScanLines(lines)
	if !first.Equal(second) {
		t.Error("scanning the same input twice gave different results")
	}
}

func TestScanWithoutDetail(t *testing.T) {
	agg := NewScanner(nil).ScanLines(splitListing(listing))
	if agg.Detailed() {
		t.Fatal("Detailed() = true without WithDetail")
	}
	if agg.Total() != 10 {
		t.Errorf("Total() = %d, want 10", agg.Total())
	}
	for _, ext := range isa.Extensions() {
		if occ := agg.Occurrences(ext); occ != nil {
			t.Errorf("Occurrences(%s) = %v without detail", ext, occ)
		}
	}
}

func TestScanReader(t *testing.T) {
	s := NewScanner(nil, WithDetail(true))
	fromReader, err := s.ScanReader(strings.NewReader(listing))
	if err != nil {
		t.Fatalf("ScanReader: %v", err)
	}
	fromLines := s.ScanLines(splitListing(listing))

	// A trailing newline yields no final empty token from bufio.Scanner.
	if fromReader.Total() != fromLines.Total() || fmt.Sprint(fromReader.Occurrences(isa.SSE2)) != fmt.Sprint(fromLines.Occurrences(isa.SSE2)) {
		t.Errorf("ScanReader total %d, ScanLines total %d", fromReader.Total(), fromLines.Total())
	}
	if fromReader.Instructions() != fromLines.Instructions() {
		t.Errorf("ScanReader instructions %d, ScanLines %d", fromReader.Instructions(), fromLines.Instructions())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestScanReaderError(t *testing.T) {
	_, err := NewScanner(nil).ScanReader(failingReader{})
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("ScanReader error = %v", err)
	}
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\nb\n\nc"))
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if fmt.Sprint(lines) != fmt.Sprint([]string{"a", "b", "", "c"}) {
		t.Errorf("ReadLines = %q", lines)
	}
	if _, err := ReadLines(failingReader{}); err == nil {
		t.Error("ReadLines ignored read error")
	}
}

func TestScanParallelMatchesSequential(t *testing.T) {
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, splitListing(listing)...)
	}
	s := NewScanner(nil, WithDetail(true))
	want := s.ScanLines(lines)

	for _, shards := range []int{0, 1, 2, 3, 7, 16, len(lines), len(lines) + 5} {
		t.Run(fmt.Sprintf("shards=%d", shards), func(t *testing.T) {
			got, err := s.ScanParallel(context.Background(), lines, shards)
			if err != nil {
				t.Fatalf("ScanParallel: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("parallel total %d, sequential total %d", got.Total(), want.Total())
			}
		})
	}
}

func TestScanParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lines := make([]string, 100)
	_, err := NewScanner(nil).ScanParallel(ctx, lines, 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ScanParallel error = %v, want context.Canceled", err)
	}
}
