package address

import (
	bchchaincfg "github.com/gcash/bchd/chaincfg"
	bchtxscript "github.com/gcash/bchd/txscript"
	"github.com/gcash/bchutil"

	"github.com/vultisig/deposit/internal/common"
)

// BCHAddress wraps a bchutil.Address to implement UTXOAddress.
type BCHAddress struct {
	addr bchutil.Address
}

func bchParams(network common.Network) *bchchaincfg.Params {
	if network == common.Testnet {
		return &bchchaincfg.TestNet3Params
	}
	return &bchchaincfg.MainNetParams
}

// NewBCHAddress creates a BCHAddress from an address string.
// Both CashAddr ("bitcoincash:q...", prefix optional) and legacy base58 forms are accepted.
func NewBCHAddress(addrStr string, network common.Network) (*BCHAddress, error) {
	params := bchParams(network)
	addr, err := bchutil.DecodeAddress(addrStr, params)
	if err != nil {
		return nil, err
	}
	if !addr.IsForNet(params) {
		return nil, errWrongNetwork(addrStr, network)
	}
	return &BCHAddress{addr: addr}, nil
}

func (a *BCHAddress) String() string        { return a.addr.String() }
func (a *BCHAddress) ScriptAddress() []byte { return a.addr.ScriptAddress() }
func (a *BCHAddress) PayToAddrScript() ([]byte, error) {
	return bchtxscript.PayToAddrScript(a.addr)
}
