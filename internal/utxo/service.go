package utxo

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/metrics"
	"github.com/vultisig/deposit/internal/types"
)

// Service ties a Builder to its fee source and broadcaster.
type Service struct {
	builder     *Builder
	source      Source
	fees        FeeProvider
	broadcaster Broadcaster
	logger      logrus.FieldLogger
	metrics     *metrics.UTXOMetrics
}

func NewService(
	chain common.Chain,
	network common.Network,
	source Source,
	fees FeeProvider,
	broadcaster Broadcaster,
	logger logrus.FieldLogger,
) (*Service, error) {
	builder, err := NewBuilder(chain, network, source, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		builder:     builder,
		source:      source,
		fees:        fees,
		broadcaster: broadcaster,
		logger:      logger.WithField("chain", chain.String()),
		metrics:     metrics.NewUTXOMetrics(),
	}, nil
}

// Build fills a zero fee rate from the fee provider, then builds.
func (s *Service) Build(ctx context.Context, req Request) (*Skeleton, error) {
	if req.FeeRate == 0 && s.fees != nil {
		rate, err := s.fees.FeeRate(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get fee rate: %w", types.ErrDataUnavailable, err)
		}
		req.FeeRate = rate
	}
	return s.builder.Build(ctx, req)
}

// Broadcast serializes a signed transaction and pushes it.
// Zcash is refused: wire.MsgTx cannot carry the v5 fields, use BroadcastRaw.
func (s *Service) Broadcast(ctx context.Context, signed *wire.MsgTx) (string, error) {
	if s.builder.chain == common.Zcash {
		return "", fmt.Errorf("%w: %s transactions cannot be serialized as wire.MsgTx, use BroadcastRaw", types.ErrUnsupportedChain, s.builder.chain)
	}
	var buf bytes.Buffer
	if err := signed.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize tx: %w", err)
	}

	hash, err := s.BroadcastRaw(ctx, buf.Bytes())
	if err != nil {
		return "", err
	}
	if want := signed.TxHash().String(); hash != want {
		s.logger.WithFields(logrus.Fields{
			"txHash":   hash,
			"expected": want,
		}).Warn("broadcast returned a different tx hash")
	}
	return hash, nil
}

// BroadcastRaw pushes an already serialized signed transaction.
func (s *Service) BroadcastRaw(ctx context.Context, rawTx []byte) (string, error) {
	hash, err := s.broadcaster.Broadcast(ctx, rawTx)
	s.metrics.RecordBroadcast(s.builder.chain.String(), err)
	if err != nil {
		s.logger.WithField("rawTx", hex.EncodeToString(rawTx)).WithError(err).Error("broadcast failed")
		return "", fmt.Errorf("%w: %w", types.ErrBroadcastFailed, err)
	}

	s.logger.WithField("txHash", hash).Info("transaction broadcasted")
	return hash, nil
}

// Balance returns the confirmed balance of address in base units.
func (s *Service) Balance(ctx context.Context, address string) (uint64, error) {
	balance, err := s.source.GetBalance(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get balance for %s: %w", types.ErrDataUnavailable, address, err)
	}
	return balance, nil
}
