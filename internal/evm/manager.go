package evm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/status"
)

type Network struct {
	Chain     common.Chain
	Depositor *Depositor
	State     *ChainState
	Status    *status.Status
	rpc       *ethclient.Client
}

func (n *Network) Close() {
	if n.rpc != nil {
		n.rpc.Close()
	}
}

type Manager struct {
	network map[common.Chain]*Network
}

func NewManager(network map[common.Chain]*Network) *Manager {
	return &Manager{
		network: network,
	}
}

func (m *Manager) Get(chain common.Chain) (*Network, error) {
	net, ok := m.network[chain]
	if !ok {
		return nil, fmt.Errorf("failed to get network for chain: %s", chain)
	}
	return net, nil
}

func (m *Manager) Close() {
	for _, n := range m.network {
		n.Close()
	}
}
