package thorchain

import (
	"context"
	"fmt"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/evm"
	"github.com/vultisig/deposit/internal/types"
)

var _ evm.VaultDirectory = (*Client)(nil)

// GetInboundVaultInfo returns the current vault of chain. A chain that is halted or has
// trading paused has no usable vault.
func (c *Client) GetInboundVaultInfo(ctx context.Context, chain common.Chain) (evm.VaultInfo, error) {
	addr, ok, err := c.inbound(ctx, chain)
	if err != nil {
		return evm.VaultInfo{}, fmt.Errorf("%w: %w", types.ErrDataUnavailable, err)
	}
	if !ok || addr.Address == "" {
		return evm.VaultInfo{}, fmt.Errorf("%w: no inbound address for %s", types.ErrVaultUnresolved, chain)
	}
	if addr.Halted || addr.GlobalTradingPaused || addr.ChainTradingPaused {
		return evm.VaultInfo{}, fmt.Errorf("%w: %s inbound is halted or paused", types.ErrVaultUnresolved, chain)
	}

	return evm.VaultInfo{
		Address: addr.Address,
		Router:  addr.Router,
	}, nil
}

func (c *Client) GetRouterAddress(ctx context.Context, chain common.Chain) (string, error) {
	addr, ok, err := c.inbound(ctx, chain)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrDataUnavailable, err)
	}
	if !ok || addr.Router == "" {
		return "", fmt.Errorf("%w: %s", types.ErrRouterUnresolved, chain)
	}
	return addr.Router, nil
}
