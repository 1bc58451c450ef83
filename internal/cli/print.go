package cli

import (
	"fmt"
	"io"

	"github.com/ballot-dapp/ballot/internal/output"
)

// out and outln write human-facing text. A failed write to the terminal
// is not worth failing a command over.
//
//nolint:errcheck // best-effort terminal output
func out(w io.Writer, format string, args ...any) { fmt.Fprintf(w, format, args...) }

//nolint:errcheck // best-effort terminal output
func outln(w io.Writer, args ...any) { fmt.Fprintln(w, args...) }

// writeJSON encodes a command result the same way the JSON formatter does.
func writeJSON(w io.Writer, v any) error {
	return output.NewFormatter(output.FormatJSON, w).Print(v)
}
