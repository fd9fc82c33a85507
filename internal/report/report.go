// Package report turns scan aggregates into the simdscan output record.
package report

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"simdscan/internal/isa"
	"simdscan/internal/scan"
)

// Report is the serialised result for one binary or listing.
type Report struct {
	Binary          string                                    `json:"binary" yaml:"binary"`
	HasSIMD         bool                                      `json:"has_simd" yaml:"has_simd"`
	ISASummary      *orderedmap.OrderedMap[string, int]       `json:"isa_summary" yaml:"isa_summary"`
	TotalSIMDInsts  int                                       `json:"total_simd_insts" yaml:"total_simd_insts"`
	ISADetails      *orderedmap.OrderedMap[string, ISADetail] `json:"isa_details,omitempty" yaml:"isa_details,omitempty"`
	HostUnsupported []string                                  `json:"host_unsupported,omitempty" yaml:"host_unsupported,omitempty"`
}

// ISADetail is the per-mnemonic breakdown of one extension.
type ISADetail struct {
	UniqueMnemonics int                                 `json:"unique_mnemonics" yaml:"unique_mnemonics"`
	Occurrences     *orderedmap.OrderedMap[string, int] `json:"occurrences" yaml:"occurrences"`
}

// Options controls which optional sections Build fills in.
type Options struct {
	// Details adds isa_details. The aggregate must have been scanned with
	// detail enabled.
	Details bool
	// Top limits the mnemonics listed per extension; 0 lists all of them.
	// unique_mnemonics always counts every distinct mnemonic.
	Top int
	// HostCheck lists the extensions in use that this CPU lacks.
	HostCheck bool
	// Only restricts the report to these extensions. has_simd and
	// total_simd_insts then describe the listed extensions alone.
	Only []isa.Extension
}

// hostSupports is swapped in tests.
var hostSupports = isa.HostSupports

// Build assembles the report for binary from a finished aggregate.
func Build(binary string, agg *scan.Aggregate, opts Options) *Report {
	exts := agg.Extensions()
	if len(opts.Only) > 0 {
		exts = slices.DeleteFunc(exts, func(ext isa.Extension) bool {
			return !slices.Contains(opts.Only, ext)
		})
	}

	r := &Report{
		Binary:     binary,
		ISASummary: orderedmap.New[string, int](),
	}
	for _, ext := range exts {
		r.ISASummary.Set(ext.String(), agg.Count(ext))
		r.TotalSIMDInsts += agg.Count(ext)
	}
	r.HasSIMD = r.TotalSIMDInsts > 0

	if opts.Details {
		r.ISADetails = orderedmap.New[string, ISADetail]()
		for _, ext := range exts {
			occ := agg.Occurrences(ext)
			if opts.Top > 0 && len(occ) > opts.Top {
				occ = occ[:opts.Top]
			}
			d := ISADetail{
				UniqueMnemonics: agg.UniqueMnemonics(ext),
				Occurrences:     orderedmap.New[string, int](),
			}
			for _, mc := range occ {
				d.Occurrences.Set(mc.Mnemonic, mc.Count)
			}
			r.ISADetails.Set(ext.String(), d)
		}
	}

	if opts.HostCheck {
		for _, ext := range exts {
			if !hostSupports(ext) {
				r.HostUnsupported = append(r.HostUnsupported, ext.String())
			}
		}
	}
	return r
}
