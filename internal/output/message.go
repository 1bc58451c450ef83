package output

import (
	"fmt"
	"io"
)

// Message prefixes for one-line status output.
const (
	warnPrefix    = "⚠️  "
	successPrefix = "✅ "
	alertPrefix   = "🚨 "
)

func line(w io.Writer, prefix, msg string) {
	_, _ = fmt.Fprintln(w, prefix+msg)
}

// WarnTo writes a warning line to w.
func WarnTo(w io.Writer, msg string) { line(w, warnPrefix, msg) }

// SuccessTo writes a success line to w.
func SuccessTo(w io.Writer, msg string) { line(w, successPrefix, msg) }

// Alert writes a wallet alert to w. It stands in for the blocking alert
// dialog a browser would show, so the text is the provider's own message.
func Alert(w io.Writer, msg string) { line(w, alertPrefix, msg) }
