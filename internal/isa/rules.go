package isa

import "strings"

// sizeSuffixes are the AT&T operand-size letters objdump appends to some
// mnemonics (cvtsi2sdl, crc32b, vcvtpd2psx).
const sizeSuffixes = "bwlqxy"

// evexFamilies are mnemonic prefixes that only exist with EVEX encoding.
var evexFamilies = []string{
	"v4f", "v4v",
	"valign",
	"vblendm", "vpblendm",
	"vcompress", "vpcompress",
	"vcvtne2ps2bf16", "vcvtneps2bf16", "vdpbf16ps",
	"vdbpsadbw",
	"vexp2",
	"vexpand", "vpexpand",
	"vfixupimm",
	"vfpclass",
	"vgatherpf", "vscatterpf",
	"vgetexp", "vgetmant",
	"vp2intersect",
	"vpbroadcastm",
	"vpconflict",
	"vpermi2", "vpermt2",
	"vplzcnt",
	"vpmadd52",
	"vpmultishift",
	"vpopcnt",
	"vprol", "vpror",
	"vpscatter", "vscatter",
	"vpshld", "vpshrd",
	"vpshufbitqmb",
	"vptestm", "vptestnm",
	"vpternlog",
	"vrange",
	"vrcp14", "vrcp28",
	"vreduce",
	"vrndscale",
	"vrsqrt14", "vrsqrt28",
	"vscalef",
}

// vpcmpEVEXPredicates are the compare-into-mask pseudo ops objdump prints
// for EVEX vpcmp with an immediate predicate.
var vpcmpEVEXPredicates = map[string]bool{
	"lt": true, "le": true, "neq": true, "nlt": true, "nle": true,
	"false": true, "true": true,
}

// notSIMD are v-prefixed mnemonics that are not vector instructions.
var notSIMD = map[string]bool{
	"verr": true, "verw": true,
	"vmcall": true, "vmclear": true, "vmfunc": true, "vmgexit": true,
	"vmlaunch": true, "vmload": true, "vmmcall": true, "vmptrld": true,
	"vmptrst": true, "vmread": true, "vmresume": true, "vmrun": true,
	"vmsave": true, "vmwrite": true, "vmxoff": true, "vmxon": true,
}

func defaultRules() []Rule {
	return []Rule{
		{Name: "size-suffix", Classify: classifySizeSuffix},
		{Name: "evex-only", Classify: classifyEVEXOnly},
		{Name: "vex-legacy", Classify: classifyVEXLegacy},
		{Name: "vex-fallback", Classify: classifyVEXFallback},
	}
}

func classifySizeSuffix(t *Table, m string) (Extension, string, bool) {
	if len(m) < 5 || !strings.ContainsRune(sizeSuffixes, rune(m[len(m)-1])) {
		return None, "", false
	}
	base := m[:len(m)-1]
	ext, ok := t.Exact(base)
	return ext, base, ok
}

func classifyEVEXOnly(_ *Table, m string) (Extension, string, bool) {
	if len(m) < 2 || m[0] != 'v' {
		return None, "", false
	}
	for _, p := range evexFamilies {
		if strings.HasPrefix(m, p) {
			return AVX512, m, true
		}
	}
	// 128/256-bit lane forms: vinsertf32x4, vbroadcasti64x2, vshuff32x4.
	if strings.Contains(m, "32x") || strings.Contains(m, "64x") {
		return AVX512, m, true
	}
	// vmovdqa32, vmovdqu8 and friends.
	if strings.HasPrefix(m, "vmovdq") && isDigit(m[len(m)-1]) {
		return AVX512, m, true
	}
	if strings.HasPrefix(m, "vcvt") {
		rest := m[len("vcvt"):]
		if strings.HasPrefix(rest, "u") || strings.Contains(rest, "2u") ||
			strings.Contains(rest, "qq2") || strings.Contains(rest, "2qq") {
			return AVX512, m, true
		}
	}
	if rest, ok := strings.CutPrefix(m, "vpmov"); ok && isEVEXMove(rest) {
		return AVX512, m, true
	}
	if rest, ok := strings.CutPrefix(m, "vpcmp"); ok && isEVEXCompare(rest) {
		return AVX512, m, true
	}
	return None, "", false
}

// isEVEXMove matches the vpmov down-converts (vpmovqb, vpmovusdw) and the
// mask moves (vpmovm2d, vpmovd2m).
func isEVEXMove(rest string) bool {
	if strings.HasPrefix(rest, "m2") || strings.HasSuffix(rest, "2m") {
		return true
	}
	if r, ok := strings.CutPrefix(rest, "us"); ok {
		rest = r
	} else if r, ok := strings.CutPrefix(rest, "s"); ok {
		rest = r
	}
	switch rest {
	case "qb", "qw", "qd", "db", "dw", "wb":
		return true
	}
	return false
}

// isEVEXCompare matches vpcmp{b,w,d,q}, vpcmpu{b,w,d,q} and their
// predicate pseudo ops. vpcmpeq* and vpcmpgt* also have VEX forms.
func isEVEXCompare(rest string) bool {
	if rest == "" || !strings.ContainsRune("bwdq", rune(rest[len(rest)-1])) {
		return false
	}
	pred := rest[:len(rest)-1]
	if pred == "" || pred == "u" {
		return true
	}
	if p, ok := strings.CutSuffix(pred, "u"); ok && (p == "eq" || vpcmpEVEXPredicates[p]) {
		return true
	}
	return vpcmpEVEXPredicates[pred]
}

// classifyVEXLegacy maps the VEX form of a legacy SSE-family mnemonic to AVX.
func classifyVEXLegacy(t *Table, m string) (Extension, string, bool) {
	if len(m) < 3 || m[0] != 'v' {
		return None, "", false
	}
	ext, ok := t.Exact(m[1:])
	if !ok || ext >= AVX {
		return None, "", false
	}
	return AVX, m, true
}

func classifyVEXFallback(_ *Table, m string) (Extension, string, bool) {
	if len(m) < 4 || m[0] != 'v' {
		return None, "", false
	}
	if notSIMD[m] {
		return None, m, true
	}
	return AVX, m, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
