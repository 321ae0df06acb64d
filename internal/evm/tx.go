package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/vultisig/deposit/internal/types"
)

type txRequest struct {
	walletIndex int
	to          ecommon.Address
	value       *big.Int
	data        []byte
	gasLimit    uint64 // 0 estimates
	gasPrice    *big.Int
}

// txSender signs and submits legacy transactions.
type txSender struct {
	reader  ChainReader
	signer  Signer
	chainID *big.Int
}

func (s *txSender) send(ctx context.Context, req txRequest) (ecommon.Hash, error) {
	from, err := s.signer.Address(req.walletIndex)
	if err != nil {
		return ecommon.Hash{}, err
	}
	value := req.value
	if value == nil {
		value = big.NewInt(0)
	}

	nonce, err := s.reader.PendingNonceAt(ctx, from)
	if err != nil {
		return ecommon.Hash{}, fmt.Errorf("%w: failed to get nonce: %w", types.ErrDataUnavailable, err)
	}

	gasLimit := req.gasLimit
	if gasLimit == 0 {
		gasLimit, err = s.reader.EstimateGas(ctx, ethereum.CallMsg{
			From:     from,
			To:       &req.to,
			GasPrice: req.gasPrice,
			Value:    value,
			Data:     req.data,
		})
		if err != nil {
			return ecommon.Hash{}, fmt.Errorf("%w: failed to estimate gas: %w", types.ErrDataUnavailable, err)
		}
	}

	tx := etypes.NewTx(&etypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: req.gasPrice,
		Gas:      gasLimit,
		To:       &req.to,
		Value:    value,
		Data:     req.data,
	})
	signed, err := s.signer.SignTx(ctx, req.walletIndex, tx, s.chainID)
	if err != nil {
		return ecommon.Hash{}, fmt.Errorf("%w: failed to sign tx: %w", types.ErrSubmissionFailed, err)
	}

	if err := s.reader.SendTransaction(ctx, signed); err != nil {
		return ecommon.Hash{}, fmt.Errorf("%w: %w", types.ErrSubmissionFailed, err)
	}
	return signed.Hash(), nil
}
