package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build metadata.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print version information",
	Long:    `Print the ballot version, commit and build date.`,
	Example: `  ballot version
  ballot version -o json`,
	RunE: runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.GroupID = "config"
}

func runVersion(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		v := buildInfo.Version
		if v == "" {
			v = "dev"
		}
		return writeJSON(w, map[string]string{
			"version": v,
			"commit":  buildInfo.Commit,
			"date":    buildInfo.Date,
			"go":      runtime.Version(),
		})
	}
	out(w, "ballot %s\n", formatVersion(buildInfo))
	return nil
}
