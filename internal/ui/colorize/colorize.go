// Package colorize applies terminal syntax highlighting to report output.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Enabled reports whether colour output is allowed. Setting SIMDSCAN_NO_COLOR
// or NO_COLOR to any value disables it.
func Enabled() bool {
	return os.Getenv("SIMDSCAN_NO_COLOR") == "" && os.Getenv("NO_COLOR") == ""
}

// getReportStyle returns the report style with fallbacks
func getReportStyle() *chroma.Style {
	for _, name := range []string{"simdscan-dark", "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	// Try high-color first, then fallback
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Colorize highlights code written in language ("json", "yaml"). When colours
// are disabled the input comes back unchanged.
func Colorize(code, language string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return code, fmt.Errorf("no lexer for %q", language)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getReportStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}
