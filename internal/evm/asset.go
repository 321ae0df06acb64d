package evm

import (
	"fmt"
	"strings"

	ecommon "github.com/ethereum/go-ethereum/common"

	"github.com/vultisig/deposit/internal/common"
)

// Capability is how an asset reaches a vault. It is fixed when the asset is built.
type Capability int

const (
	// NativeTransferCapable assets are the chain's gas asset, sent straight to the vault.
	NativeTransferCapable Capability = iota + 1
	// RouterDepositCapable assets are token contracts deposited through the router.
	RouterDepositCapable
)

func (c Capability) String() string {
	switch c {
	case NativeTransferCapable:
		return "native"
	case RouterDepositCapable:
		return "router"
	default:
		return "unknown"
	}
}

// Asset is an EVM asset in THORChain terms: the gas asset of Chain or an ERC-20 contract on it.
type Asset struct {
	Chain      common.Chain
	Symbol     string
	Contract   ecommon.Address
	capability Capability
}

// NativeAsset returns the gas asset of chain, e.g. ETH.ETH or BSC.BNB.
func NativeAsset(chain common.Chain) (Asset, error) {
	if !chain.IsEVM() {
		return Asset{}, fmt.Errorf("chain %s is not an EVM chain", chain)
	}
	symbol, err := chain.NativeSymbol()
	if err != nil {
		return Asset{}, err
	}
	return Asset{Chain: chain, Symbol: symbol, capability: NativeTransferCapable}, nil
}

// TokenAsset returns the ERC-20 asset at contract on chain.
func TokenAsset(chain common.Chain, symbol, contract string) (Asset, error) {
	if !chain.IsEVM() {
		return Asset{}, fmt.Errorf("chain %s is not an EVM chain", chain)
	}
	if !ecommon.IsHexAddress(contract) {
		return Asset{}, fmt.Errorf("invalid token contract %q", contract)
	}
	addr := ecommon.HexToAddress(contract)
	if addr == (ecommon.Address{}) {
		return Asset{}, fmt.Errorf("token contract cannot be zero")
	}
	return Asset{
		Chain:      chain,
		Symbol:     strings.ToUpper(symbol),
		Contract:   addr,
		capability: RouterDepositCapable,
	}, nil
}

// ParseAsset parses THORChain notation: "ETH.ETH" or "ETH.USDC-0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48".
func ParseAsset(s string) (Asset, error) {
	net, rest, ok := strings.Cut(s, ".")
	if !ok || rest == "" {
		return Asset{}, fmt.Errorf("invalid asset %q", s)
	}
	chain, err := common.FromThorName(net)
	if err != nil {
		return Asset{}, fmt.Errorf("invalid asset %q: %w", s, err)
	}

	symbol, contract, isToken := strings.Cut(rest, "-")
	if isToken {
		return TokenAsset(chain, symbol, contract)
	}

	native, err := NativeAsset(chain)
	if err != nil {
		return Asset{}, err
	}
	if !strings.EqualFold(symbol, native.Symbol) {
		return Asset{}, fmt.Errorf("asset %q has no contract and is not the gas asset of %s", s, chain)
	}
	return native, nil
}

func (a Asset) Capability() Capability { return a.capability }

func (a Asset) String() string {
	thorNet, _ := a.Chain.ThorName()
	if a.capability == RouterDepositCapable {
		return fmt.Sprintf("%s.%s-0X%s", thorNet, a.Symbol, strings.ToUpper(a.Contract.Hex()[2:]))
	}
	return thorNet + "." + a.Symbol
}
