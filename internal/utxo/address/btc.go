package address

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/vultisig/deposit/internal/common"
)

// BTCAddress wraps a btcutil.Address to implement UTXOAddress.
type BTCAddress struct {
	addr btcutil.Address
}

func btcParams(network common.Network) *chaincfg.Params {
	if network == common.Testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// NewBTCAddress creates a BTCAddress from an address string.
func NewBTCAddress(addrStr string, network common.Network) (*BTCAddress, error) {
	params := btcParams(network)
	addr, err := btcutil.DecodeAddress(addrStr, params)
	if err != nil {
		return nil, err
	}
	if !addr.IsForNet(params) {
		return nil, errWrongNetwork(addrStr, network)
	}
	return &BTCAddress{addr: addr}, nil
}

func (a *BTCAddress) String() string        { return a.addr.String() }
func (a *BTCAddress) ScriptAddress() []byte { return a.addr.ScriptAddress() }
func (a *BTCAddress) PayToAddrScript() ([]byte, error) {
	return txscript.PayToAddrScript(a.addr)
}
