package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/output"
	"github.com/ballot-dapp/ballot/internal/wallet"
	ballerr "github.com/ballot-dapp/ballot/pkg/errors"
)

// connectCmd requests account access.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet and print the selected account",
	Long: `Ensure the wallet is on an allowed network, then request account access.

The first account the wallet returns is printed. On a terminal it is also
shown as a QR code.`,
	Example: `  ballot connect
  ballot connect -o json`,
	RunE: runConnect,
}

// switchAccountCmd asks the wallet to let the user pick accounts again.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var switchAccountCmd = &cobra.Command{
	Use:   "switch-account",
	Short: "Re-request account permissions from the wallet",
	Long: `Ensure the wallet is on an allowed network, then ask it to show its
account picker again. The first account granted is printed. Granting nothing
is not an error.`,
	Example: `  ballot switch-account`,
	RunE: runSwitchAccount,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(switchAccountCmd)
	connectCmd.GroupID = "wallet"
	switchAccountCmd.GroupID = "wallet"
}

// accountResult is the machine-readable form of connect and switch-account.
type accountResult struct {
	Account  string `json:"account"`
	Checksum string `json:"checksum,omitempty"`
	Short    string `json:"short,omitempty"`
}

func runConnect(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	conn, release, err := newConnector(ctx)
	if err != nil {
		return err
	}
	defer release()

	account, err := conn.Connect(ctx)
	if err != nil {
		if errors.Is(err, ballerr.ErrProviderMissing) {
			return providerMissing()
		}
		return err
	}
	logger.Info("connected account %s", account)
	return displayAccount(cmd, account)
}

func runSwitchAccount(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	conn, release, err := newConnector(ctx)
	if err != nil {
		return err
	}
	defer release()

	account, err := conn.RequestAccountPermissions(ctx)
	if err != nil {
		if errors.Is(err, ballerr.ErrProviderMissing) {
			return providerMissing()
		}
		return err
	}
	if account == "" {
		w := cmd.OutOrStdout()
		if formatter.IsJSON() {
			return writeJSON(w, accountResult{})
		}
		output.WarnTo(w, "No account was granted")
		return nil
	}
	logger.Info("switched to account %s", account)
	return displayAccount(cmd, account)
}

func displayAccount(cmd *cobra.Command, account string) error {
	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		return writeJSON(w, accountResult{
			Account:  account,
			Checksum: wallet.ChecksumAddress(account),
			Short:    wallet.ShortAddress(account),
		})
	}

	outln(w, account)
	if output.CanRenderQR(w) {
		outln(w)
		return output.RenderQR(w, account, output.DefaultQRConfig())
	}
	return nil
}

// providerMissing decorates the missing-provider error with the install link.
func providerMissing() error {
	return ballerr.WithSuggestion(ballerr.ErrProviderMissing,
		fmt.Sprintf("install it from %s or point --provider at a running wallet", cfg.UI.InstallURL))
}
