package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ReportDark is the style used for JSON and YAML reports. Keys are teal,
// strings gold and counts pink.
var ReportDark = styles.Register(chroma.MustNewStyle("simdscan-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#6A9955",

	chroma.NameTag:      "#7C9C9D", // JSON object keys
	chroma.NameProperty: "#7C9C9D",
	chroma.NameVariable: "#7C9C9D",
	chroma.Literal:      "#FFFFFF", // YAML scalars

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",

	chroma.KeywordConstant: "#569CD6", // true, false, null

	chroma.String: "#EACD53",

	chroma.Punctuation: "#858585",
	chroma.Operator:    "#858585",
}))
