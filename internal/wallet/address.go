package wallet

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// IsHexAddress reports whether addr is a 0x-prefixed 20-byte hex account.
func IsHexAddress(addr string) bool {
	if len(addr) != 42 || !strings.HasPrefix(addr, "0x") {
		return false
	}
	_, err := hex.DecodeString(addr[2:])
	return err == nil
}

// ChecksumAddress returns the EIP-55 mixed-case form of addr. Anything that
// is not a hex account is returned unchanged; providers may hand back
// accounts in any case.
func ChecksumAddress(addr string) string {
	if !IsHexAddress(addr) {
		return addr
	}

	lower := strings.ToLower(addr[2:])
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	var sb strings.Builder
	sb.Grow(42)
	sb.WriteString("0x")
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && digest[i] >= '8' {
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// ShortAddress abbreviates an account address to its first six and last
// four characters, e.g. "0x1234...abcd". Short inputs are returned as-is.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
