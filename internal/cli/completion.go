package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionGenerators maps each supported shell to its cobra generator.
//
//nolint:gochecknoglobals // Static shell table
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func completionShells() []string {
	shells := make([]string, 0, len(completionGenerators))
	for s := range completionGenerators {
		shells = append(shells, s)
	}
	slices.Sort(shells)
	return shells
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var completionCmd = &cobra.Command{
	Use:   "completion [" + strings.Join(completionShells(), "|") + "]",
	Short: "Generate shell completion script",
	Long: `Print a completion script for the named shell.

Load it for the current session by sourcing the output, or write it to
your shell's completion directory to load it in every session. Start a
new shell afterwards.`,
	Example: `  source <(ballot completion bash)
  ballot completion zsh > "${fpath[1]}/_ballot"
  ballot completion fish > ~/.config/fish/completions/ballot.fish
  ballot completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells(),
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	completionCmd.GroupID = "config"
	rootCmd.AddCommand(completionCmd)
}
