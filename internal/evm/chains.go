package evm

import (
	"slices"

	"github.com/vultisig/deposit/internal/common"
)

// SupportedEVMChains returns the EVM chains THORChain keeps a router on.
func SupportedEVMChains() []common.Chain {
	return []common.Chain{
		common.Ethereum,
		common.BscChain,
		common.Avalanche,
		common.Base,
	}
}

// IsThorchainSupported checks if deposits on chain can be routed through THORChain.
func IsThorchainSupported(chain common.Chain) bool {
	return slices.Contains(SupportedEVMChains(), chain)
}
