package ui

// ButtonState is the state of one attached button.
type ButtonState int

// Button states.
const (
	StateUnbound ButtonState = iota
	StateUninstalled
	StateIdle
	StateConnecting
	StateConnected
	StateError
)

// String returns the string representation of a button state.
func (s ButtonState) String() string {
	switch s {
	case StateUninstalled:
		return "uninstalled"
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unbound"
	}
}

// Labels are the button texts the binders write.
type Labels struct {
	Connect       string
	Connecting    string
	Connected     string
	SwitchAccount string
	Switching     string
	Install       string
}

// DefaultLabels returns the stock MetaMask labels.
func DefaultLabels() Labels {
	return Labels{
		Connect:       "Connect Wallet",
		Connecting:    "Connecting...",
		Connected:     "Connected",
		SwitchAccount: "Switch Account",
		Switching:     "Switching...",
		Install:       "Install MetaMask",
	}
}

// DefaultInstallURL is where an uninstalled button sends the user.
const DefaultInstallURL = "https://metamask.io/download"

// flow selects which negotiation a button runs.
type flow int

const (
	flowConnect flow = iota
	flowSwitch
)

func (f flow) String() string {
	if f == flowSwitch {
		return "switch account"
	}
	return "connect"
}

func (f flow) idleLabel(l Labels) string {
	if f == flowSwitch {
		return l.SwitchAccount
	}
	return l.Connect
}

func (f flow) busyLabel(l Labels) string {
	if f == flowSwitch {
		return l.Switching
	}
	return l.Connecting
}

func (f flow) fallbackMessage() string {
	if f == flowSwitch {
		return "Failed to switch account"
	}
	return "Failed to connect"
}
