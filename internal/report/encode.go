package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"simdscan/internal/simdscan/styles"
	"simdscan/internal/ui/colorize"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatText, FormatMarkdown}
}

// ParseFormat resolves a format name; "yml" and "md" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w %q (want %s)", ErrUnknownFormat, name, FormatList())
}

// FormatList is Formats as prose, for help text and errors.
func FormatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// EncodeOptions controls terminal presentation.
type EncodeOptions struct {
	// Styled enables colours: chroma for json/yaml, lipgloss for text and
	// glamour for markdown. Leave it off when writing to a pipe or file.
	Styled bool
	// Width is the terminal width used when rendering markdown.
	Width int
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, r *Report, format Format, opts EncodeOptions) error {
	var (
		out      string
		language string
		err      error
	)
	switch format {
	case FormatJSON:
		out, err = encodeJSON(r)
		language = "json"
	case FormatYAML:
		out, err = encodeYAML(r)
		language = "yaml"
	case FormatText:
		out = renderText(r, opts.Styled)
	case FormatMarkdown:
		out = renderMarkdown(r)
		if opts.Styled {
			out, err = styles.RenderMarkdown(out, opts.Width)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s report: %w", format, err)
	}

	if opts.Styled && language != "" {
		if colored, cerr := colorize.Colorize(out, language); cerr == nil {
			out = colored
		}
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func encodeJSON(r *Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func encodeYAML(r *Report) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
