package wallet

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeCurrency describes the native token of a network.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// NetworkDefinition is the registration payload sent with
// wallet_addEthereumChain when the provider does not know the network.
type NetworkDefinition struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// AllowList is the ordered set of acceptable chain identifiers. The first
// entry is preferred and is the target of switch and add requests.
type AllowList struct {
	ChainIDs []string
	Network  NetworkDefinition
}

// Contains reports whether chainID is allowed. Identifiers that parse as
// hex quantities compare numerically, so "0x0539" matches "0x539".
func (a AllowList) Contains(chainID string) bool {
	for _, allowed := range a.ChainIDs {
		if sameChain(allowed, chainID) {
			return true
		}
	}
	return false
}

// Preferred returns the first allowed chain identifier, or "" for an empty
// list.
func (a AllowList) Preferred() string {
	if len(a.ChainIDs) == 0 {
		return ""
	}
	return a.ChainIDs[0]
}

// NetworkName is the name shown to the user when a manual switch is needed.
func (a AllowList) NetworkName() string {
	if name := strings.TrimSpace(a.Network.ChainName); name != "" {
		return name
	}
	return a.Preferred()
}

// registration returns the add-chain payload with the chain ID filled from
// the preferred entry when the definition leaves it empty.
func (a AllowList) registration() NetworkDefinition {
	def := a.Network
	if def.ChainID == "" {
		def.ChainID = a.Preferred()
	}
	if def.RPCURLs == nil {
		def.RPCURLs = []string{}
	}
	if def.BlockExplorerURLs == nil {
		def.BlockExplorerURLs = []string{}
	}
	return def
}

func sameChain(a, b string) bool {
	x, errA := decodeChainID(a)
	y, errB := decodeChainID(b)
	if errA == nil && errB == nil {
		return x == y
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// decodeChainID parses a hex quantity, tolerating leading zeros that
// hexutil rejects.
func decodeChainID(id string) (uint64, error) {
	id = strings.TrimSpace(id)
	if len(id) > 2 && (id[:2] == "0x" || id[:2] == "0X") {
		digits := strings.TrimLeft(id[2:], "0")
		if digits == "" {
			digits = "0"
		}
		id = "0x" + digits
	}
	return hexutil.DecodeUint64(id)
}

// ValidChainID reports whether id is a hex quantity such as "0x539".
func ValidChainID(id string) bool {
	_, err := decodeChainID(id)
	return err == nil
}
