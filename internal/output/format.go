// Package output renders command results for the ballot CLI, as indented
// JSON for scripts or plain text and tables for people.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format is an output encoding.
type Format string

// Output formats. Auto picks text on a terminal and JSON otherwise.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formatter writes results in a fixed format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter returns a formatter writing to w.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Format returns the formatter's encoding.
func (f *Formatter) Format() Format { return f.format }

// Writer returns the destination.
func (f *Formatter) Writer() io.Writer { return f.writer }

// IsJSON reports whether results are encoded as JSON.
func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// Print writes v as indented JSON or, in text mode, as a single line.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if s, ok := v.(fmt.Stringer); ok {
		v = s.String()
	}
	_, err := fmt.Fprintln(f.writer, v)
	return err
}

// Printf writes formatted text regardless of the format.
func (f *Formatter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(f.writer, format, args...)
	return err
}

// Println writes a line of text regardless of the format.
func (f *Formatter) Println(args ...any) error {
	_, err := fmt.Fprintln(f.writer, args...)
	return err
}

// DetectFormat settles FormatAuto against w. Explicit formats pass through.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if isTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

// Resolve parses a configured or flag-supplied format and settles "auto"
// against the destination writer.
func Resolve(w io.Writer, s string) Format {
	return DetectFormat(w, ParseFormat(s))
}

// ParseFormat maps a name to a Format. Unknown names mean auto.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f
	default:
		return FormatAuto
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}
