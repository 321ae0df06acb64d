package address

import (
	ltcchaincfg "github.com/ltcsuite/ltcd/chaincfg"
	"github.com/ltcsuite/ltcd/ltcutil"
	ltctxscript "github.com/ltcsuite/ltcd/txscript"

	"github.com/vultisig/deposit/internal/common"
)

// LTCAddress wraps a ltcutil.Address to implement UTXOAddress.
type LTCAddress struct {
	addr ltcutil.Address
}

func ltcParams(network common.Network) *ltcchaincfg.Params {
	if network == common.Testnet {
		return &ltcchaincfg.TestNet4Params
	}
	return &ltcchaincfg.MainNetParams
}

// NewLTCAddress creates a LTCAddress from an address string.
func NewLTCAddress(addrStr string, network common.Network) (*LTCAddress, error) {
	params := ltcParams(network)
	addr, err := ltcutil.DecodeAddress(addrStr, params)
	if err != nil {
		return nil, err
	}
	if !addr.IsForNet(params) {
		return nil, errWrongNetwork(addrStr, network)
	}
	return &LTCAddress{addr: addr}, nil
}

func (a *LTCAddress) String() string        { return a.addr.String() }
func (a *LTCAddress) ScriptAddress() []byte { return a.addr.ScriptAddress() }
func (a *LTCAddress) PayToAddrScript() ([]byte, error) {
	return ltctxscript.PayToAddrScript(a.addr)
}
