package output

import (
	"fmt"
	"io"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// QRConfig controls how links and addresses are drawn as terminal QR codes.
type QRConfig struct {
	Level      qr.Level
	QuietZone  int
	HalfBlocks bool
}

// DefaultQRConfig is tuned for short payloads such as an install link or
// a 0x address on a typical terminal.
func DefaultQRConfig() QRConfig {
	return QRConfig{Level: qr.L, QuietZone: 1, HalfBlocks: true}
}

// CanRenderQR reports whether w is an interactive terminal.
func CanRenderQR(w io.Writer) bool {
	return isTerminal(w)
}

// RenderQR draws data as a QR code on w. Non-terminal writers get
// nothing so piped output stays clean. Data that cannot be encoded at the
// configured level is an error.
func RenderQR(w io.Writer, data string, cfg QRConfig) error {
	if !CanRenderQR(w) {
		return nil
	}
	if _, err := qr.Encode(data, cfg.Level); err != nil {
		return fmt.Errorf("encoding %q as QR: %w", data, err)
	}

	qrterminal.GenerateWithConfig(data, qrterminal.Config{
		Level:          cfg.Level,
		Writer:         w,
		QuietZone:      cfg.QuietZone,
		HalfBlocks:     cfg.HalfBlocks,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return nil
}
