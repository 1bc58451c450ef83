package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ballot-dapp/ballot/internal/output"
	"github.com/ballot-dapp/ballot/internal/ui"
	"github.com/ballot-dapp/ballot/internal/ui/memdom"
	"github.com/ballot-dapp/ballot/internal/wallet"
)

// watchCmd runs the wallet buttons on an in-terminal page.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Drive the connect and switch-account buttons interactively",
	Long: `Render the voting page's wallet controls in the terminal and drive them
from the keyboard. Every change to a button or the address display is printed.

Commands (one per line on stdin):
  c  click the connect button
  s  click the switch-account button
  q  quit

Account changes made in the wallet itself are applied as they arrive. Wallet
alerts are printed to stderr. In JSON mode each change is one JSON object per
line.`,
	Example: `  ballot watch
  ballot watch -o json`,
	RunE: runWatch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.GroupID = "wallet"
}

// elementEvent is one rendered change in JSON mode.
type elementEvent struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Disabled bool   `json:"disabled"`
}

// watchPage prints document changes. Binder goroutines and the stdin loop
// both trigger renders.
type watchPage struct {
	mu      sync.Mutex
	w       io.Writer
	doc     *memdom.Document
	asJSON  bool
	display string
}

func (p *watchPage) changed(id string) {
	el := p.doc.Get(id)
	if el == nil {
		return
	}
	ev := elementEvent{ID: id, Text: el.Text(), Disabled: el.Disabled()}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		_ = json.NewEncoder(p.w).Encode(ev)
		return
	}

	text := ev.Text
	if id == p.display {
		if text == "" {
			text = "(not connected)"
		} else {
			text = wallet.ShortAddress(wallet.ChecksumAddress(text)) + "  " + text
		}
	}
	state := ""
	if ev.Disabled {
		state = " [disabled]"
	}
	out(p.w, "%-20s %s%s\n", id, text, state)
}

// openInstall prints the install link in place of opening a browser, as a
// QR code too when the page is a terminal.
func (p *watchPage) openInstall(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.asJSON {
		return json.NewEncoder(p.w).Encode(map[string]string{"install_url": url})
	}
	out(p.w, "Install a wallet: %s\n", url)
	if output.CanRenderQR(p.w) {
		return output.RenderQR(p.w, url, output.DefaultQRConfig())
	}
	return nil
}

func (p *watchPage) renderAll() {
	for _, id := range p.doc.IDs() {
		p.changed(id)
	}
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	conn, release, err := newConnector(ctx)
	if err != nil {
		return err
	}
	defer release()

	w := cmd.OutOrStdout()
	errW := cmd.ErrOrStderr()

	doc := memdom.New()
	connectBtn := doc.Add(cfg.UI.ConnectButton, "")
	switchBtn := doc.Add(cfg.UI.SwitchButton, "")
	doc.Add(cfg.UI.Display, "")

	page := &watchPage{w: w, doc: doc, asJSON: formatter.IsJSON(), display: cfg.UI.Display}

	labels := ui.DefaultLabels()
	labels.Install = cfg.UI.InstallLabel
	binder := ui.NewBinder(conn, doc,
		ui.NotifierFunc(func(msg string) { output.Alert(errW, msg) }),
		ui.OpenerFunc(page.openInstall),
		ui.WithLabels(labels),
		ui.WithInstallURL(cfg.UI.InstallURL),
		ui.WithBinderLogger(logger.Named("ui")),
	)
	defer binder.Close()

	binder.AttachWalletUI(ctx, ui.Descriptor{
		ButtonID:  cfg.UI.ConnectButton,
		DisplayID: cfg.UI.Display,
		OnConnected: func(account string) {
			logger.Info("connected account %s", account)
		},
	})
	binder.AttachSwitchAccountUI(ctx, ui.Descriptor{
		ButtonID:  cfg.UI.SwitchButton,
		DisplayID: cfg.UI.Display,
	})

	page.renderAll()
	doc.OnChange(page.changed)

	var clicks sync.WaitGroup
	defer clicks.Wait()

	click := func(el *memdom.Element) {
		clicks.Add(1)
		go func() {
			defer clicks.Done()
			if !el.Click(ctx) {
				logger.Debug("click on disabled %s ignored", el.ID())
			}
		}()
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "c":
			click(connectBtn)
		case "s":
			click(switchBtn)
		case "q":
			cancel()
			return nil
		case "":
		default:
			output.WarnTo(errW, "unknown command, use c (connect), s (switch account) or q (quit)")
		}
	}

	// Input ended without q: let running negotiations finish.
	clicks.Wait()
	return scanner.Err()
}
