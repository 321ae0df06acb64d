package address

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // Zcash t-addresses are Hash160 based

	"github.com/vultisig/deposit/internal/common"
)

// Zcash transparent address prefixes (2 bytes)
var (
	// ZcashMainNetP2PKH is the prefix for transparent P2PKH addresses (t1...)
	ZcashMainNetP2PKH = [2]byte{0x1C, 0xB8}
	// ZcashMainNetP2SH is the prefix for P2SH addresses (t3...)
	ZcashMainNetP2SH = [2]byte{0x1C, 0xBD}
	// ZcashTestNetP2PKH is the prefix for testnet P2PKH addresses (tm...)
	ZcashTestNetP2PKH = [2]byte{0x1D, 0x25}
	// ZcashTestNetP2SH is the prefix for testnet P2SH addresses (t2...)
	ZcashTestNetP2SH = [2]byte{0x1C, 0xBA}
)

// ZECAddress is a Zcash transparent address. Shielded addresses are not spendable here.
type ZECAddress struct {
	encoded string
	hash    []byte
	p2pkh   bool
}

func zecPrefixes(network common.Network) (p2pkh, p2sh [2]byte) {
	if network == common.Testnet {
		return ZcashTestNetP2PKH, ZcashTestNetP2SH
	}
	return ZcashMainNetP2PKH, ZcashMainNetP2SH
}

// NewZECAddress decodes a base58check transparent address with a 2-byte version prefix.
func NewZECAddress(addrStr string, network common.Network) (*ZECAddress, error) {
	payload, version, err := base58.CheckDecode(addrStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode address: %w", err)
	}

	// base58.CheckDecode splits off one version byte, the second prefix byte leads the payload
	if len(payload) != 21 {
		return nil, fmt.Errorf("invalid address length: expected 22 bytes, got %d", len(payload)+1)
	}

	prefix := [2]byte{version, payload[0]}
	p2pkh, p2sh := zecPrefixes(network)
	switch prefix {
	case p2pkh:
		return &ZECAddress{encoded: addrStr, hash: payload[1:], p2pkh: true}, nil
	case p2sh:
		return &ZECAddress{encoded: addrStr, hash: payload[1:], p2pkh: false}, nil
	default:
		return nil, fmt.Errorf("unknown address prefix %x for %s", prefix, network)
	}
}

// NewZECAddressFromPubKey derives the transparent P2PKH address of a compressed public key.
func NewZECAddressFromPubKey(pubKey []byte, network common.Network) (*ZECAddress, error) {
	if len(pubKey) != 33 {
		return nil, fmt.Errorf("invalid compressed public key length: %d", len(pubKey))
	}

	sha := sha256.Sum256(pubKey)
	h := ripemd160.New()
	h.Write(sha[:])
	hash := h.Sum(nil)

	prefix, _ := zecPrefixes(network)
	payload := append([]byte{prefix[1]}, hash...)
	return &ZECAddress{
		encoded: base58.CheckEncode(payload, prefix[0]),
		hash:    hash,
		p2pkh:   true,
	}, nil
}

func (a *ZECAddress) String() string        { return a.encoded }
func (a *ZECAddress) ScriptAddress() []byte { return a.hash }

// PayToAddrScript builds the same P2PKH/P2SH script Bitcoin uses; only the address encoding differs.
func (a *ZECAddress) PayToAddrScript() ([]byte, error) {
	var (
		addr btcutil.Address
		err  error
	)
	if a.p2pkh {
		addr, err = btcutil.NewAddressPubKeyHash(a.hash, &chaincfg.MainNetParams)
	} else {
		addr, err = btcutil.NewAddressScriptHashFromHash(a.hash, &chaincfg.MainNetParams)
	}
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}
