package report

import (
	"fmt"
	"strings"

	"simdscan/internal/simdscan/styles"
)

func renderText(r *Report, styled bool) string {
	paint := func(style func(string) string, s string) string {
		if !styled {
			return s
		}
		return style(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", paint(styles.Title, "simdscan"), r.Binary)

	simd := paint(styles.Missing, "no")
	if r.HasSIMD {
		simd = paint(styles.Present, "yes")
	}
	fmt.Fprintf(&b, "SIMD: %s  total: %s\n", simd, paint(styles.Count, fmt.Sprint(r.TotalSIMDInsts)))

	if r.ISASummary.Len() > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s\n", paint(styles.Header, fmt.Sprintf("%-10s %10s", "ISA", "COUNT")))
		for pair := r.ISASummary.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&b, "%s %s\n",
				paint(styles.Extension, fmt.Sprintf("%-10s", pair.Key)),
				paint(styles.Count, fmt.Sprintf("%10d", pair.Value)))
		}
	}

	if r.ISADetails != nil {
		for pair := r.ISADetails.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&b, "\n%s %s\n",
				paint(styles.Extension, pair.Key),
				paint(styles.Muted, fmt.Sprintf("(%d unique)", pair.Value.UniqueMnemonics)))
			for occ := pair.Value.Occurrences.Oldest(); occ != nil; occ = occ.Next() {
				fmt.Fprintf(&b, "  %-18s %s\n", occ.Key, paint(styles.Count, fmt.Sprintf("%8d", occ.Value)))
			}
		}
	}

	if len(r.HostUnsupported) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n",
			paint(styles.Missing, "unsupported on this host:"),
			strings.Join(r.HostUnsupported, ", "))
	}
	return b.String()
}

func renderMarkdown(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# SIMD report: `%s`\n\n", r.Binary)

	if !r.HasSIMD {
		b.WriteString("No SIMD instructions found.\n")
		return b.String()
	}

	b.WriteString("| ISA | Instructions |\n|---|---:|\n")
	for pair := r.ISASummary.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&b, "| %s | %d |\n", pair.Key, pair.Value)
	}
	fmt.Fprintf(&b, "\n**Total SIMD instructions:** %d\n", r.TotalSIMDInsts)

	if r.ISADetails != nil {
		for pair := r.ISADetails.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&b, "\n## %s (%d unique mnemonics)\n\n", pair.Key, pair.Value.UniqueMnemonics)
			b.WriteString("| Mnemonic | Count |\n|---|---:|\n")
			for occ := pair.Value.Occurrences.Oldest(); occ != nil; occ = occ.Next() {
				fmt.Fprintf(&b, "| `%s` | %d |\n", occ.Key, occ.Value)
			}
		}
	}

	if len(r.HostUnsupported) > 0 {
		fmt.Fprintf(&b, "\n> Not supported by this host CPU: %s\n", strings.Join(r.HostUnsupported, ", "))
	}
	return b.String()
}
