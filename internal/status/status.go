package status

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
)

type TxOnChainStatus string

const (
	TxOnChainPending TxOnChainStatus = "PENDING"
	TxOnChainSuccess TxOnChainStatus = "SUCCESS"
	TxOnChainFail    TxOnChainStatus = "FAIL"
)

type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash ecommon.Hash) (*etypes.Receipt, error)
}

type Status struct {
	caller   ReceiptReader
	interval time.Duration
}

func NewStatus(caller ReceiptReader) *Status {
	return &Status{
		caller:   caller,
		interval: time.Second,
	}
}

func (s *Status) GetTxStatus(ctx context.Context, txHash ecommon.Hash) (TxOnChainStatus, error) {
	receipt, err := s.caller.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		return TxOnChainPending, nil
	}
	if err != nil {
		return "", err
	}
	if receipt.Status == etypes.ReceiptStatusSuccessful {
		return TxOnChainSuccess, nil
	}
	return TxOnChainFail, nil
}

// WaitMined polls until the transaction is included or ctx is done.
func (s *Status) WaitMined(ctx context.Context, txHash ecommon.Hash) (TxOnChainStatus, error) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			status, err := s.GetTxStatus(ctx, txHash)
			if err != nil {
				return "", err
			}
			if status != TxOnChainPending {
				return status, nil
			}
		}
	}
}
