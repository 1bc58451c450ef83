package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// commandTree returns root and every command below it in depth-first order.
func commandTree(root *cobra.Command) []*cobra.Command {
	cmds := []*cobra.Command{root}
	for _, sub := range root.Commands() {
		cmds = append(cmds, commandTree(sub)...)
	}
	return cmds
}

// enrichParentLong lists a group command's visible subcommands at the end
// of its Long text. Call it from init after the subcommands are attached.
func enrichParentLong(cmd *cobra.Command) {
	var list strings.Builder
	tw := tabwriter.NewWriter(&list, 0, 0, 2, ' ', 0)
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\n", sub.Name(), sub.Short)
		}
	}
	_ = tw.Flush()

	if list.Len() == 0 {
		return
	}
	cmd.Long = strings.TrimRight(cmd.Long, "\n") + "\n\nSubcommands:\n" + list.String()
}
