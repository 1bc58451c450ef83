package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/metrics"
	"github.com/ballot-dapp/ballot/internal/output"
	"github.com/ballot-dapp/ballot/internal/wallet"
)

// statusCmd reports what the connector sees.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wallet provider and network status",
	Long: `Detect the wallet provider and report its client version, the current
chain, whether that chain is allowed, and the accounts already authorized.

Nothing is requested from the user: no network switch and no account prompt.
With --verbose the provider request counters are included.`,
	Example: `  ballot status
  ballot status -o json`,
	RunE: runStatus,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.GroupID = "wallet"
}

// statusReport is the machine-readable form of ballot status.
type statusReport struct {
	Provider        string            `json:"provider"`
	Installed       bool              `json:"installed"`
	ClientVersion   string            `json:"client_version,omitempty"`
	ChainID         string            `json:"chain_id,omitempty"`
	Allowed         bool              `json:"allowed"`
	AllowedChainIDs []string          `json:"allowed_chain_ids"`
	Network         string            `json:"network"`
	Accounts        []string          `json:"accounts"`
	Metrics         *metrics.Snapshot `json:"metrics,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	conn, release, err := newConnector(ctx)
	if err != nil {
		return err
	}
	defer release()

	report, err := collectStatus(cmd, conn)
	if err != nil {
		return err
	}
	if cfg.Output.Verbose {
		snap := metrics.Global.Snapshot()
		report.Metrics = &snap
	}

	w := cmd.OutOrStdout()
	if formatter.IsJSON() {
		return writeJSON(w, report)
	}
	displayStatusText(w, report)
	return nil
}

func collectStatus(cmd *cobra.Command, conn *wallet.Connector) (statusReport, error) {
	allow := conn.AllowList()
	report := statusReport{
		Provider:        cfg.Provider.URL,
		Installed:       conn.IsProviderInstalled(),
		AllowedChainIDs: allow.ChainIDs,
		Network:         allow.NetworkName(),
		Accounts:        []string{},
	}
	if !report.Installed {
		return report, nil
	}

	ctx := commandContext(cmd)
	report.ClientVersion = conn.Provider().ClientVersion()

	chainID, err := conn.ChainID(ctx)
	if err != nil {
		return report, err
	}
	report.ChainID = chainID
	report.Allowed = allow.Contains(chainID)

	accounts, err := conn.Accounts(ctx)
	if err != nil {
		return report, err
	}
	if accounts != nil {
		report.Accounts = accounts
	}
	return report, nil
}

func displayStatusText(w io.Writer, r statusReport) {
	table := output.NewTable("FIELD", "VALUE")
	table.AddRow("Provider", r.Provider)
	table.AddRow("Installed", yesNo(r.Installed))
	if r.Installed {
		table.AddRow("Client", r.ClientVersion)
		table.AddRow("Chain", r.ChainID)
		table.AddRow("Allowed", yesNo(r.Allowed))
	}
	table.AddRow("Allow-list", strings.Join(r.AllowedChainIDs, ", "))
	table.AddRow("Network", r.Network)

	if len(r.Accounts) == 0 {
		table.AddRow("Accounts", "none authorized")
	}
	for i, a := range r.Accounts {
		table.AddRow("Account "+strconv.Itoa(i), a)
	}

	if r.Metrics != nil {
		table.AddRow("Requests", strconv.FormatInt(r.Metrics.RequestsTotal, 10))
		table.AddRow("Request errors", strconv.FormatInt(r.Metrics.RequestErrors, 10))
		table.AddRow("Avg latency", strconv.FormatFloat(r.Metrics.AvgLatencyMs, 'f', 1, 64)+" ms")
	}

	_ = table.Render(w)

	if !r.Installed {
		outln(w)
		out(w, "No wallet provider answered. Install one from %s\n", cfg.UI.InstallURL)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
