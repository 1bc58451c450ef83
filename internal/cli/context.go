package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// commandContext returns the command context, falling back to Background.
// Wallet requests wait on the user, so commands do not add a deadline.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
