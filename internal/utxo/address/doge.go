package address

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/vultisig/deposit/internal/common"
)

// DogeMainNetParams defines Dogecoin mainnet parameters.
var DogeMainNetParams = chaincfg.Params{
	Name:             "mainnet",
	Net:              0xc0c0c0c0,
	PubKeyHashAddrID: 0x1E, // D prefix
	ScriptHashAddrID: 0x16, // 9 or A prefix
}

// DogeTestNetParams defines Dogecoin testnet parameters.
var DogeTestNetParams = chaincfg.Params{
	Name:             "testnet",
	Net:              0xdcb7c1fc,
	PubKeyHashAddrID: 0x71, // n prefix
	ScriptHashAddrID: 0xc4, // 2 prefix
}

// DOGEAddress wraps a btcutil.Address to implement UTXOAddress for Dogecoin.
type DOGEAddress struct {
	addr btcutil.Address
}

func dogeParams(network common.Network) *chaincfg.Params {
	if network == common.Testnet {
		return &DogeTestNetParams
	}
	return &DogeMainNetParams
}

// NewDOGEAddress creates a DOGEAddress from an address string.
// DOGE has no SegWit, only base58 P2PKH and P2SH are valid.
func NewDOGEAddress(addrStr string, network common.Network) (*DOGEAddress, error) {
	params := dogeParams(network)
	addr, err := btcutil.DecodeAddress(addrStr, params)
	if err != nil {
		return nil, err
	}
	switch addr.(type) {
	case *btcutil.AddressPubKeyHash, *btcutil.AddressScriptHash:
	default:
		return nil, errWrongNetwork(addrStr, network)
	}
	if !addr.IsForNet(params) {
		return nil, errWrongNetwork(addrStr, network)
	}
	return &DOGEAddress{addr: addr}, nil
}

func (a *DOGEAddress) String() string        { return a.addr.String() }
func (a *DOGEAddress) ScriptAddress() []byte { return a.addr.ScriptAddress() }
func (a *DOGEAddress) PayToAddrScript() ([]byte, error) {
	return txscript.PayToAddrScript(a.addr)
}
