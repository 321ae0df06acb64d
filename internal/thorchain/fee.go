package thorchain

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/types"
	"github.com/vultisig/deposit/internal/utxo"
)

// GasRate returns THORNode's gas rate for chain: sats (or the chain's base unit) per byte
// for UTXO chains and gwei for EVM chains.
func (c *Client) GasRate(ctx context.Context, chain common.Chain) (uint64, error) {
	addr, ok, err := c.inbound(ctx, chain)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrDataUnavailable, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: no gas info found for %s", types.ErrDataUnavailable, chain)
	}

	rate, err := strconv.ParseUint(addr.GasRate, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse gas rate %q: %w", addr.GasRate, err)
	}
	return rate, nil
}

// FeeProvider binds the gas rate of one UTXO chain to utxo.FeeProvider.
type FeeProvider struct {
	client *Client
	chain  common.Chain
}

var _ utxo.FeeProvider = (*FeeProvider)(nil)

func NewFeeProvider(client *Client, chain common.Chain) *FeeProvider {
	return &FeeProvider{client: client, chain: chain}
}

func (p *FeeProvider) FeeRate(ctx context.Context) (utxo.FeeRate, error) {
	rate, err := p.client.GasRate(ctx, p.chain)
	if err != nil {
		return 0, err
	}
	return utxo.FeeRate(rate), nil
}
