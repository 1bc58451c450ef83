package output

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// ErrorOutput is the JSON envelope for a failed command.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the flattened form of an error for display.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError writes err to w. Errors that are not BallotErrors are
// reported as GENERAL_ERROR with their text as the message.
func FormatError(w io.Writer, err error, format Format) error {
	switch {
	case err == nil:
		return nil
	case format == FormatJSON:
		return formatErrorJSON(w, err)
	default:
		return formatErrorText(w, err)
	}
}

// detail flattens err into its display fields. Provider-surfaced errors
// keep their original message.
func detail(err error) ErrorDetail {
	var be *ballerr.BallotError
	if errors.As(err, &be) {
		d := ErrorDetail{
			Code:       be.Code,
			Message:    be.Message,
			Details:    be.Details,
			Suggestion: be.Suggestion,
			ExitCode:   be.ExitCode,
		}
		if be.Cause != nil {
			d.Cause = be.Cause.Error()
		}
		return d
	}

	return ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: ballerr.ExitGeneral,
	}
}

func formatErrorJSON(w io.Writer, err error) error {
	return NewFormatter(FormatJSON, w).Print(ErrorOutput{Error: detail(err)})
}

// formatErrorText prints the message, then the cause when it adds
// something, then details sorted by key, then the suggestion.
func formatErrorText(w io.Writer, err error) error {
	d := detail(err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", d.Message)
	if d.Cause != "" && d.Cause != d.Message {
		fmt.Fprintf(&sb, "  Cause: %s\n", d.Cause)
	}
	if len(d.Details) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, k := range slices.Sorted(maps.Keys(d.Details)) {
			fmt.Fprintf(&sb, "  %s: %s\n", k, d.Details[k])
		}
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", d.Suggestion)
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}

// FormatSuccess reports a completed action as {"status","message"} JSON or
// a plain line.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		return NewFormatter(FormatJSON, w).Print(map[string]string{"status": "success", "message": message})
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
