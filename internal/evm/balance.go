package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"

	"github.com/vultisig/deposit/internal/types"
)

func (s *ChainState) NativeBalance(ctx context.Context, owner ecommon.Address) (*big.Int, error) {
	balance, err := s.reader.BalanceAt(ctx, owner, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get native balance: %w", types.ErrDataUnavailable, err)
	}
	return balance, nil
}

func (s *ChainState) TokenBalance(ctx context.Context, token, owner ecommon.Address) (*big.Int, error) {
	data, err := packBalanceOf(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf: %w", err)
	}
	out, err := s.reader.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get token balance: %w", types.ErrDataUnavailable, err)
	}
	return unpackUint256("balanceOf", out)
}

// Balance returns owner's balance of asset in base units.
func (s *ChainState) Balance(ctx context.Context, asset Asset, owner ecommon.Address) (*big.Int, error) {
	if asset.Capability() == RouterDepositCapable {
		return s.TokenBalance(ctx, asset.Contract, owner)
	}
	return s.NativeBalance(ctx, owner)
}

func (s *ChainState) TokenDecimals(ctx context.Context, token ecommon.Address) (uint8, error) {
	data, err := packDecimals()
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals: %w", err)
	}
	out, err := s.reader.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get decimals: %w", types.ErrDataUnavailable, err)
	}
	vals, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals: %w", err)
	}
	dec, ok := vals[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals output type %T", vals[0])
	}
	return dec, nil
}
