package scan

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"simdscan/internal/isa"
)

// ErrDetailMismatch is returned when merging aggregates that disagree on
// whether per-mnemonic detail is recorded.
var ErrDetailMismatch = errors.New("cannot merge aggregates with different detail modes")

// MnemonicCount is a mnemonic and how often it occurred.
type MnemonicCount struct {
	Mnemonic string
	Count    int
}

// Aggregate accumulates classification results for one scan. It is not safe
// for concurrent use; parallel scans build one Aggregate per shard and Merge
// them.
type Aggregate struct {
	detail bool
	counts [isa.MaxExtension + 1]int
	// occurrences[ext][mnemonic], allocated on first use when detail is set
	occurrences [isa.MaxExtension + 1]map[string]int

	lines        int
	instructions int
}

// NewAggregate returns an empty aggregate. With detail set, occurrences of
// each mnemonic are recorded per extension.
func NewAggregate(detail bool) *Aggregate {
	return &Aggregate{detail: detail}
}

// Detailed reports whether per-mnemonic occurrences are recorded.
func (a *Aggregate) Detailed() bool {
	return a.detail
}

// Add records one instruction of the given extension. None is ignored.
func (a *Aggregate) Add(ext isa.Extension, mnemonic string) {
	if !ext.Valid() {
		return
	}
	a.counts[ext]++
	if !a.detail {
		return
	}
	if a.occurrences[ext] == nil {
		a.occurrences[ext] = make(map[string]int)
	}
	a.occurrences[ext][mnemonic]++
}

// Merge adds the counts of b into a.
func (a *Aggregate) Merge(b *Aggregate) error {
	if a.detail != b.detail {
		return ErrDetailMismatch
	}
	for ext := range b.counts {
		a.counts[ext] += b.counts[ext]
		if len(b.occurrences[ext]) == 0 {
			continue
		}
		if a.occurrences[ext] == nil {
			a.occurrences[ext] = make(map[string]int, len(b.occurrences[ext]))
		}
		for m, n := range b.occurrences[ext] {
			a.occurrences[ext][m] += n
		}
	}
	a.lines += b.lines
	a.instructions += b.instructions
	return nil
}

// Count returns the number of instructions classified as ext.
func (a *Aggregate) Count(ext isa.Extension) int {
	if !ext.Valid() {
		return 0
	}
	return a.counts[ext]
}

// Total returns the number of SIMD instructions across all extensions.
func (a *Aggregate) Total() int {
	total := 0
	for _, ext := range isa.Extensions() {
		total += a.counts[ext]
	}
	return total
}

// HasSIMD reports whether any SIMD instruction was seen.
func (a *Aggregate) HasSIMD() bool {
	return a.Total() > 0
}

// Extensions returns the extensions with a non-zero count in canonical order.
func (a *Aggregate) Extensions() []isa.Extension {
	var out []isa.Extension
	for _, ext := range isa.Extensions() {
		if a.counts[ext] > 0 {
			out = append(out, ext)
		}
	}
	return out
}

// Occurrences returns the mnemonics recorded under ext, most frequent first
// and alphabetically among equal counts. It is nil unless the aggregate is
// detailed.
func (a *Aggregate) Occurrences(ext isa.Extension) []MnemonicCount {
	if !ext.Valid() || len(a.occurrences[ext]) == 0 {
		return nil
	}
	out := make([]MnemonicCount, 0, len(a.occurrences[ext]))
	for m, n := range a.occurrences[ext] {
		out = append(out, MnemonicCount{Mnemonic: m, Count: n})
	}
	slices.SortFunc(out, func(x, y MnemonicCount) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Mnemonic, y.Mnemonic)
	})
	return out
}

// UniqueMnemonics returns the number of distinct mnemonics recorded under ext.
func (a *Aggregate) UniqueMnemonics(ext isa.Extension) int {
	if !ext.Valid() {
		return 0
	}
	return len(a.occurrences[ext])
}

// Lines returns the number of input lines consumed.
func (a *Aggregate) Lines() int {
	return a.lines
}

// Instructions returns the number of input lines that parsed as
// instructions, SIMD or not.
func (a *Aggregate) Instructions() int {
	return a.instructions
}

// Equal reports whether two aggregates hold identical results.
func (a *Aggregate) Equal(b *Aggregate) bool {
	if a.detail != b.detail || a.counts != b.counts ||
		a.lines != b.lines || a.instructions != b.instructions {
		return false
	}
	for ext := range a.occurrences {
		if !maps.Equal(a.occurrences[ext], b.occurrences[ext]) {
			return false
		}
	}
	return true
}
