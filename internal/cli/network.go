package cli

import (
	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/output"
)

// networkCmd is the parent command for network operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage the wallet's active network",
	Long:  `Inspect and change the network the wallet provider is connected to.`,
}

// networkEnsureCmd moves the wallet onto an allowed network.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var networkEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Switch the wallet to an allowed network",
	Long: `Make sure the wallet is on one of network.allowed_chain_ids.

When it is not, the wallet is asked to switch to the first allowed chain. A
wallet that does not know that chain is asked to add it using the network.*
settings. The wallet may prompt the user in either case.`,
	Example: `  ballot network ensure
  ballot network ensure --provider ws://127.0.0.1:1248`,
	RunE: runNetworkEnsure,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(networkCmd)
	networkCmd.AddCommand(networkEnsureCmd)
	enrichParentLong(networkCmd)
	networkCmd.GroupID = "wallet"
}

func runNetworkEnsure(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	conn, release, err := newConnector(ctx)
	if err != nil {
		return err
	}
	defer release()

	if !conn.IsProviderInstalled() {
		return providerMissing()
	}

	if err := conn.EnsureAllowedNetwork(ctx); err != nil {
		return err
	}

	chainID, err := conn.ChainID(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		return writeJSON(w, map[string]any{
			"chain_id": chainID,
			"allowed":  conn.AllowList().Contains(chainID),
			"network":  conn.AllowList().NetworkName(),
		})
	}
	return output.FormatSuccess(w, "Wallet is on an allowed network ("+chainID+")", output.FormatText)
}
