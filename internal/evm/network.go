package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/status"
)

func NewNetwork(
	ctx context.Context,
	chain common.Chain,
	rpcUrl string,
	directory VaultDirectory,
	gas GasRateSource,
	signer Signer,
	cfg Config,
	logger logrus.FieldLogger,
) (*Network, error) {
	evmID, err := chain.EvmID()
	if err != nil {
		return nil, fmt.Errorf("failed to get EVM ID: %w", err)
	}

	rpc, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := rpc.ChainID(ctx)
	if err != nil {
		rpc.Close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	if !chainID.IsInt64() || chainID.Int64() != evmID {
		rpc.Close()
		return nil, fmt.Errorf("rpc for %s reports chain id %s, expected %d", chain, chainID, evmID)
	}

	depositor, err := NewDepositor(chain, chainID, rpc, directory, gas, signer, cfg, logger)
	if err != nil {
		rpc.Close()
		return nil, err
	}

	return &Network{
		Chain:     chain,
		Depositor: depositor,
		State:     depositor.State(),
		Status:    status.NewStatus(rpc),
		rpc:       rpc,
	}, nil
}
