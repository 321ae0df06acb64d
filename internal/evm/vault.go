package evm

import (
	"context"

	"github.com/vultisig/deposit/internal/common"
)

// VaultInfo is the inbound vault of a chain and the router in front of it.
type VaultInfo struct {
	Address string
	Router  string
}

// VaultDirectory resolves the current vault and router of a chain.
// Vaults rotate; callers must not cache the result across deposits.
type VaultDirectory interface {
	GetInboundVaultInfo(ctx context.Context, chain common.Chain) (VaultInfo, error)
	GetRouterAddress(ctx context.Context, chain common.Chain) (string, error)
}
