package isa

// Mnemonics are assigned to the extension that first introduced them. The
// MMX-era packed integer operations are listed under SSE2, which widened
// them to XMM registers, and popcnt/lzcnt/crc32 plus SSE4a sit under SSE4.
// movd and movq are left out because AT&T listings use movq for plain
// 64-bit register moves.

var sseMnemonics = []string{
	"addps", "addss", "andnps", "andps", "cmpps", "cmpss", "comiss",
	"cvtpi2ps", "cvtps2pi", "cvtsi2ss", "cvtss2si", "cvttps2pi", "cvttss2si",
	"divps", "divss", "ldmxcsr", "maxps", "maxss", "minps", "minss",
	"movaps", "movhlps", "movhps", "movlhps", "movlps", "movmskps",
	"movntps", "movss", "movups", "mulps", "mulss", "orps", "rcpps",
	"rcpss", "rsqrtps", "rsqrtss", "shufps", "sqrtps", "sqrtss",
	"stmxcsr", "subps", "subss", "ucomiss", "unpckhps", "unpcklps",
	"xorps", "pavgb", "pavgw", "pextrw", "pinsrw", "pmaxsw", "pmaxub",
	"pminsw", "pminub", "pmovmskb", "psadbw", "pshufw", "pmulhuw",
	"maskmovq", "movntq",
}

var sse2Mnemonics = []string{
	"addpd", "addsd", "andnpd", "andpd", "cmppd", "cmpsd", "comisd",
	"cvtdq2pd", "cvtdq2ps", "cvtpd2dq", "cvtpd2pi", "cvtpd2ps", "cvtpi2pd",
	"cvtps2dq", "cvtps2pd", "cvtsd2si", "cvtsd2ss", "cvtsi2sd",
	"cvtss2sd", "cvttpd2dq", "cvttpd2pi", "cvttps2dq", "cvttsd2si",
	"divpd", "divsd", "maxpd", "maxsd", "minpd", "minsd", "movapd",
	"movhpd", "movlpd", "movmskpd", "movsd", "movupd", "mulpd", "mulsd",
	"orpd", "shufpd", "sqrtpd", "sqrtsd", "subpd", "subsd", "ucomisd",
	"unpckhpd", "unpcklpd", "xorpd", "movdq2q", "movdqa", "movdqu",
	"movq2dq", "paddq", "pmuludq", "pshufhw", "pshuflw", "pshufd",
	"pslldq", "psrldq", "punpckhqdq", "punpcklqdq", "maskmovdqu",
	"movntdq", "movntpd",
	"paddb", "paddw", "paddd", "paddsb", "paddsw", "paddusb", "paddusw",
	"psubb", "psubw", "psubd", "psubq", "psubsb", "psubsw", "psubusb",
	"psubusw", "pmullw", "pmulhw", "pmaddwd", "pand", "pandn", "por",
	"pxor", "pcmpeqb", "pcmpeqw", "pcmpeqd", "pcmpgtb", "pcmpgtw",
	"pcmpgtd", "packsswb", "packssdw", "packuswb", "punpckhbw",
	"punpckhwd", "punpckhdq", "punpcklbw", "punpcklwd", "punpckldq",
	"psllw", "pslld", "psllq", "psrlw", "psrld", "psrlq", "psraw", "psrad",
}

var sse3Mnemonics = []string{
	"addsubpd", "addsubps", "haddpd", "haddps", "hsubpd", "hsubps",
	"movddup", "movshdup", "movsldup", "lddqu", "fisttp",
}

var ssse3Mnemonics = []string{
	"psignw", "psignd", "psignb", "pshufb", "pmulhrsw", "pmaddubsw",
	"phsubw", "phsubsw", "phsubd", "phaddw", "phaddsw", "phaddd",
	"palignr", "pabsw", "pabsd", "pabsb",
}

var sse4Mnemonics = []string{
	"mpsadbw", "phminposuw", "pmulld", "pmuldq", "dpps", "dppd",
	"blendps", "blendpd", "blendvps", "blendvpd", "pblendvb", "pblendw",
	"pminsb", "pmaxsb", "pminuw", "pmaxuw", "pminud", "pmaxud", "pminsd",
	"pmaxsd", "roundps", "roundss", "roundpd", "roundsd", "insertps",
	"pinsrb", "pinsrd", "pinsrq", "extractps", "pextrb", "pextrd",
	"pextrq", "pmovsxbw", "pmovzxbw", "pmovsxbd", "pmovzxbd", "pmovsxbq",
	"pmovzxbq", "pmovsxwd", "pmovzxwd", "pmovsxwq", "pmovzxwq",
	"pmovsxdq", "pmovzxdq", "ptest", "pcmpeqq", "pcmpgtq", "packusdw",
	"pcmpestri", "pcmpestrm", "pcmpistri", "pcmpistrm", "crc32", "popcnt",
	"movntdqa", "extrq", "insertq", "movntsd", "movntss", "lzcnt",
}

var avxMnemonics = []string{
	"vaddps", "vaddpd", "vaddss", "vaddsd", "vsubps", "vsubpd", "vsubss",
	"vsubsd", "vmulps", "vmulpd", "vmulss", "vmulsd", "vdivps", "vdivpd",
	"vdivss", "vdivsd", "vmaxps", "vmaxpd", "vmaxss", "vmaxsd", "vminps",
	"vminpd", "vminss", "vminsd", "vxorps", "vxorpd", "vandps", "vandpd",
	"vmovaps", "vmovups", "vmovapd", "vmovupd", "vmovdqa", "vmovdqu",
	"vmovntps", "vmovntpd", "vmovd", "vmovq", "vmovss", "vmovsd",
	"vbroadcastss", "vbroadcastsd", "vbroadcastf128", "vbroadcasti128",
	"vinsertf128", "vinserti128", "vextractf128", "vextracti128",
	"vblendps", "vblendpd", "vblendvps", "vblendvpd", "vpblendd",
	"vpermilps", "vpermilpd", "vperm2f128", "vperm2i128", "vpermps",
	"vpermpd", "vpermd", "vpermq", "vshufps", "vshufpd", "vtestps",
	"vtestpd", "vzeroupper", "vzeroall", "vldmxcsr", "vstmxcsr",
	"vpaddd", "vpsubd", "vpmulld", "vpmuludq", "vpackssdw", "vpackusdw",
	"vpcmpeqd", "vpcmpgtd", "vpminud", "vpmaxud", "vpminsd", "vpmaxsd",
	"vpxor", "vpand", "vpandn", "vpor", "vpshufb", "vpshufd",
	"vgatherdps", "vgatherdpd", "vgatherqps", "vgatherqpd", "vpgatherdd",
	"vpgatherdq", "vpgatherqd", "vpgatherqq", "vpmaskmovd", "vpmaskmovq",
	"vmaskmovps", "vmaskmovpd", "vpbroadcastb", "vpbroadcastw",
	"vpbroadcastd", "vpbroadcastq", "vpsllvd", "vpsllvq", "vpsrlvd",
	"vpsrlvq", "vpsravd", "vcvtph2ps", "vcvtps2ph", "vcvtpd2dq",
	"vcvtpd2ps", "vcvttpd2dq", "vcvtsi2sd", "vcvtsi2ss",
}

var avx512Mnemonics = []string{
	"kaddd", "kandd", "korw", "kxorq", "vcompresspd", "vexpandps",
	"vpermb", "vpermw", "vpmovm2d", "vpconflictd", "vpternlogd",
	"vpshldv", "vpopcntd", "vscalefpd", "vrndscaleps",
	"vpandd", "vpandq", "vpandnd", "vpandnq", "vpord", "vporq",
	"vpxord", "vpxorq", "vpsllvw", "vpsrlvw", "vpsravw", "vpsravq",
	"vpsraq", "vpabsq", "vpmullq", "vpmaxsq", "vpmaxuq", "vpminsq",
	"vpminuq", "vmovdqa32", "vmovdqa64", "vmovdqu8", "vmovdqu16",
	"vmovdqu32", "vmovdqu64", "vcvtusi2sd", "vcvtusi2ss", "vcvtudq2ps",
	"vcvtudq2pd", "vcvtps2udq", "vcvtpd2udq", "vcvtqq2pd", "vcvtqq2ps",
	"vcvtpd2qq", "vpdpbusd", "vpdpbusds", "vpdpwssd", "vpdpwssds",
	"vshuff32x4", "vshuff64x2", "vshufi32x4", "vshufi64x2",
	"vextractf32x4", "vextractf64x4", "vextracti32x4", "vextracti64x4",
	"vinsertf32x4", "vinsertf64x4", "vinserti32x4", "vinserti64x4",
}

// cmpPredicates are the pseudo-op spellings objdump prints for cmpps and
// friends with an immediate predicate.
var cmpPredicates = []string{"eq", "lt", "le", "unord", "neq", "nlt", "nle", "ord"}

// maskOps are the AVX-512 opmask register instructions, minus kunpck which
// only exists for the bw, wd and dq pairs.
var maskOps = []string{"add", "and", "andn", "mov", "not", "or", "ortest", "shiftl", "shiftr", "test", "xnor", "xor"}

func defaultGroups() []Group {
	return []Group{
		{Extension: SSE, Mnemonics: withCompares(sseMnemonics, "ps", "ss")},
		{Extension: SSE2, Mnemonics: withCompares(sse2Mnemonics, "pd", "sd")},
		{Extension: SSE3, Mnemonics: sse3Mnemonics},
		{Extension: SSSE3, Mnemonics: ssse3Mnemonics},
		{Extension: SSE4, Mnemonics: sse4Mnemonics},
		{Extension: AVX, Mnemonics: withFMA(avxMnemonics)},
		{Extension: AVX512, Mnemonics: withMaskOps(avx512Mnemonics)},
	}
}

func withCompares(base []string, forms ...string) []string {
	out := append([]string(nil), base...)
	for _, p := range cmpPredicates {
		for _, f := range forms {
			out = append(out, "cmp"+p+f)
		}
	}
	return out
}

func withFMA(base []string) []string {
	out := append([]string(nil), base...)
	for _, order := range []string{"132", "213", "231"} {
		for _, op := range []string{"vfmadd", "vfmsub", "vfnmadd", "vfnmsub"} {
			for _, ty := range []string{"ps", "pd", "ss", "sd"} {
				out = append(out, op+order+ty)
			}
		}
		for _, op := range []string{"vfmaddsub", "vfmsubadd"} {
			for _, ty := range []string{"ps", "pd"} {
				out = append(out, op+order+ty)
			}
		}
	}
	return out
}

func withMaskOps(base []string) []string {
	out := append([]string(nil), base...)
	for _, op := range maskOps {
		for _, w := range []string{"b", "w", "d", "q"} {
			out = append(out, "k"+op+w)
		}
	}
	return append(out, "kunpckbw", "kunpckwd", "kunpckdq")
}
