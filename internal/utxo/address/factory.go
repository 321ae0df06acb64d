package address

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/gcash/bchutil"
	"github.com/ltcsuite/ltcd/ltcutil"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/types"
)

// NewFromString creates a UTXOAddress from an address string based on chain and network.
// Any decoding failure is reported as types.ErrInvalidAddress.
func NewFromString(chain common.Chain, network common.Network, addrStr string) (UTXOAddress, error) {
	var (
		addr UTXOAddress
		err  error
	)
	switch chain {
	case common.Bitcoin:
		addr, err = NewBTCAddress(addrStr, network)
	case common.Litecoin:
		addr, err = NewLTCAddress(addrStr, network)
	case common.BitcoinCash:
		addr, err = NewBCHAddress(addrStr, network)
	case common.Dogecoin:
		addr, err = NewDOGEAddress(addrStr, network)
	case common.Zcash:
		addr, err = NewZECAddress(addrStr, network)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedChain, chain)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s address %q: %v", types.ErrInvalidAddress, chain, addrStr, err)
	}
	return addr, nil
}

// FromPubKey derives the single-key receiving address of a compressed public key:
// native SegWit on BTC and LTC, P2PKH everywhere else.
func FromPubKey(chain common.Chain, network common.Network, pubKey []byte) (UTXOAddress, error) {
	if len(pubKey) != 33 {
		return nil, fmt.Errorf("%w: invalid compressed public key length: %d", types.ErrInvalidAddress, len(pubKey))
	}
	var (
		addr UTXOAddress
		err  error
	)
	switch chain {
	case common.Bitcoin:
		var a *btcutil.AddressWitnessPubKeyHash
		a, err = btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pubKey), btcParams(network))
		if err == nil {
			addr = &BTCAddress{addr: a}
		}
	case common.Litecoin:
		var a *ltcutil.AddressWitnessPubKeyHash
		a, err = ltcutil.NewAddressWitnessPubKeyHash(ltcutil.Hash160(pubKey), ltcParams(network))
		if err == nil {
			addr = &LTCAddress{addr: a}
		}
	case common.BitcoinCash:
		var a *bchutil.AddressPubKeyHash
		a, err = bchutil.NewAddressPubKeyHash(bchutil.Hash160(pubKey), bchParams(network))
		if err == nil {
			addr = &BCHAddress{addr: a}
		}
	case common.Dogecoin:
		var a *btcutil.AddressPubKeyHash
		a, err = btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubKey), dogeParams(network))
		if err == nil {
			addr = &DOGEAddress{addr: a}
		}
	case common.Zcash:
		addr, err = NewZECAddressFromPubKey(pubKey, network)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedChain, chain)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s public key: %v", types.ErrInvalidAddress, chain, err)
	}
	return addr, nil
}

// IsValid reports whether addrStr is a valid address for chain on network.
func IsValid(chain common.Chain, network common.Network, addrStr string) bool {
	_, err := NewFromString(chain, network, addrStr)
	return err == nil
}

func errWrongNetwork(addrStr string, network common.Network) error {
	return fmt.Errorf("address %s is not valid for %s", addrStr, network)
}
