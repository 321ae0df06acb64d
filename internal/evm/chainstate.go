package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/types"
)

// ChainReader is the part of an RPC client the orchestrator needs.
// *ethclient.Client and the simulated backend client satisfy it.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*etypes.Header, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account ecommon.Address) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *etypes.Transaction) error
	BalanceAt(ctx context.Context, account ecommon.Address, blockNumber *big.Int) (*big.Int, error)
}

// GasRateSource reports a chain's gas rate in gwei.
type GasRateSource interface {
	GasRate(ctx context.Context, chain common.Chain) (uint64, error)
}

// FeeRates are gas prices in wei.
type FeeRates struct {
	Average *big.Int
	Fast    *big.Int
	Fastest *big.Int
}

var gwei = big.NewInt(1_000_000_000)

// ChainState reads block and fee data. Every call goes to the node.
type ChainState struct {
	chain  common.Chain
	reader ChainReader
	gas    GasRateSource
	logger logrus.FieldLogger
}

// NewChainState returns a ChainState for chain. gas may be nil, in which case fee
// rates come from the node's suggested gas price.
func NewChainState(chain common.Chain, reader ChainReader, gas GasRateSource, logger logrus.FieldLogger) *ChainState {
	return &ChainState{
		chain:  chain,
		reader: reader,
		gas:    gas,
		logger: logger.WithField("chain", chain.String()),
	}
}

func (s *ChainState) LatestBlockTimestamp(ctx context.Context) (uint64, error) {
	header, err := s.reader.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get latest block: %w", types.ErrDataUnavailable, err)
	}
	return header.Time, nil
}

// EstimateFeeRates derives average, fast and fastest gas prices from the gas rate
// as 0.5x, 1x and 5x of it.
func (s *ChainState) EstimateFeeRates(ctx context.Context) (FeeRates, error) {
	base, err := s.baseGasPrice(ctx)
	if err != nil {
		return FeeRates{}, err
	}
	return FeeRates{
		Average: new(big.Int).Div(base, big.NewInt(2)),
		Fast:    new(big.Int).Set(base),
		Fastest: new(big.Int).Mul(base, big.NewInt(5)),
	}, nil
}

func (s *ChainState) baseGasPrice(ctx context.Context) (*big.Int, error) {
	if s.gas != nil {
		rate, err := s.gas.GasRate(ctx, s.chain)
		if err == nil && rate > 0 {
			return new(big.Int).Mul(new(big.Int).SetUint64(rate), gwei), nil
		}
		s.logger.WithError(err).WithField("gas_rate", rate).Warn("gas rate unavailable, using node gas price")
	}

	price, err := s.reader.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get gas price: %w", types.ErrDataUnavailable, err)
	}
	if price.Sign() <= 0 {
		return nil, fmt.Errorf("%w: node returned gas price %s", types.ErrDataUnavailable, price)
	}
	return price, nil
}
