package thorchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
)

const PoolStatusAvailable = "Available"

// poolMatches reports whether a pool asset ("NETWORK.SYMBOL" or "NETWORK.SYMBOL-CONTRACT")
// is the gas asset of thorNet (empty contract) or the token with that contract.
func poolMatches(asset, thorNet, nativeSymbol, contract string) bool {
	net, symbol, ok := strings.Cut(asset, ".")
	if !ok || net != thorNet {
		return false
	}
	if contract == "" {
		return symbol == nativeSymbol
	}
	_, poolContract, isToken := strings.Cut(symbol, "-")
	return isToken && strings.EqualFold(poolContract, contract)
}

// ResolveAsset returns the THORChain notation of a chain's gas asset (empty contract) or of the
// token pool whose contract matches, e.g. "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48".
func (c *Client) ResolveAsset(ctx context.Context, chain common.Chain, contract string) (string, error) {
	thorNet, err := chain.ThorName()
	if err != nil {
		return "", fmt.Errorf("unsupported chain: %w", err)
	}
	symbol, err := chain.NativeSymbol()
	if err != nil {
		return "", fmt.Errorf("failed to get native symbol for chain %s: %w", chain, err)
	}
	if contract == "" {
		return thorNet + "." + symbol, nil
	}

	pools, err := c.getPools(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range pools {
		if poolMatches(p.Asset, thorNet, symbol, contract) {
			return p.Asset, nil
		}
	}

	logrus.WithFields(logrus.Fields{
		"chain":    thorNet,
		"contract": contract,
	}).Warn("asset not found in pools")
	return "", fmt.Errorf("asset not found in THORChain pools for chain %s and contract %s", thorNet, contract)
}

// ValidateAssetPool checks that the gas asset (empty contract) or the token of chain has an
// available pool, so a deposit of it can be swapped.
func (c *Client) ValidateAssetPool(ctx context.Context, chain common.Chain, contract string) error {
	thorNet, err := chain.ThorName()
	if err != nil {
		return fmt.Errorf("chain not supported: %w", err)
	}
	symbol, err := chain.NativeSymbol()
	if err != nil {
		return fmt.Errorf("failed to get native symbol: %w", err)
	}

	pools, err := c.getPools(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch pools: %w", err)
	}

	for _, p := range pools {
		if !poolMatches(p.Asset, thorNet, symbol, contract) {
			continue
		}
		if p.Status != PoolStatusAvailable {
			return fmt.Errorf("pool %s is %s (not available)", p.Asset, p.Status)
		}
		return nil
	}

	if contract == "" {
		return fmt.Errorf("no pool found for native %s", thorNet)
	}
	return fmt.Errorf("no pool found for %s on %s", contract, thorNet)
}
