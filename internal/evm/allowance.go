package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/metrics"
	"github.com/vultisig/deposit/internal/types"
)

// AllowanceChecker reads and grants ERC-20 allowances.
type AllowanceChecker struct {
	chain   common.Chain
	reader  ChainReader
	state   *ChainState
	sender  *txSender
	logger  logrus.FieldLogger
	metrics *metrics.EVMMetrics
}

func newAllowanceChecker(chain common.Chain, reader ChainReader, state *ChainState, sender *txSender, logger logrus.FieldLogger) *AllowanceChecker {
	return &AllowanceChecker{
		chain:   chain,
		reader:  reader,
		state:   state,
		sender:  sender,
		logger:  logger,
		metrics: metrics.NewEVMMetrics(),
	}
}

// Allowance returns what spender may currently move out of owner's token balance.
func (a *AllowanceChecker) Allowance(ctx context.Context, token, owner, spender ecommon.Address) (*big.Int, error) {
	data, err := packAllowance(owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to pack allowance: %w", err)
	}
	out, err := a.reader.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check allowance: %w", types.ErrDataUnavailable, err)
	}
	return unpackUint256("allowance", out)
}

// IsApproved reports whether the allowance covers amount.
func (a *AllowanceChecker) IsApproved(ctx context.Context, token ecommon.Address, amount *big.Int, owner, spender ecommon.Address) (bool, error) {
	if amount == nil || amount.Sign() < 0 {
		return false, fmt.Errorf("invalid amount %v", amount)
	}
	allowance, err := a.Allowance(ctx, token, owner, spender)
	if err != nil {
		return false, err
	}
	return allowance.Cmp(amount) >= 0, nil
}

// Approve submits approve(spender, amount) from walletIndex. A nil amount approves MaxApproval.
func (a *AllowanceChecker) Approve(ctx context.Context, token ecommon.Address, amount *big.Int, spender ecommon.Address, walletIndex int) (ecommon.Hash, error) {
	hash, err := a.approve(ctx, token, amount, spender, walletIndex)
	a.metrics.RecordApproval(a.chain.String(), err)
	return hash, err
}

func (a *AllowanceChecker) approve(ctx context.Context, token ecommon.Address, amount *big.Int, spender ecommon.Address, walletIndex int) (ecommon.Hash, error) {
	if amount == nil {
		amount = MaxApproval
	}
	if amount.Sign() < 0 {
		return ecommon.Hash{}, fmt.Errorf("invalid approval amount %s", amount)
	}

	data, err := packApprove(spender, amount)
	if err != nil {
		return ecommon.Hash{}, fmt.Errorf("failed to pack approve: %w", err)
	}
	fees, err := a.state.EstimateFeeRates(ctx)
	if err != nil {
		return ecommon.Hash{}, err
	}

	hash, err := a.sender.send(ctx, txRequest{
		walletIndex: walletIndex,
		to:          token,
		data:        data,
		gasPrice:    fees.Fast,
	})
	if err != nil {
		return ecommon.Hash{}, fmt.Errorf("failed to approve %s: %w", token.Hex(), err)
	}

	a.logger.WithFields(logrus.Fields{
		"token":   token.Hex(),
		"spender": spender.Hex(),
		"amount":  amount.String(),
		"tx_hash": hash.Hex(),
	}).Info("approval submitted")
	return hash, nil
}
