package utxo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/metrics"
	"github.com/vultisig/deposit/internal/types"
	"github.com/vultisig/deposit/internal/utxo/address"
)

// Payment is one recipient output.
type Payment struct {
	Address string
	Amount  uint64
}

// Request describes the transaction to build.
// Recipient and Amount are shorthand for a single payment placed before Recipients.
type Request struct {
	Recipient  string
	Amount     uint64
	Recipients []Payment
	Memo       string
	FeeRate    FeeRate
	Sender     string
}

func (r Request) payments() []Payment {
	var out []Payment
	if r.Recipient != "" || r.Amount != 0 {
		out = append(out, Payment{Address: r.Recipient, Amount: r.Amount})
	}
	return append(out, r.Recipients...)
}

// Builder produces unsigned transactions for one chain and network.
type Builder struct {
	chain   common.Chain
	network common.Network
	params  Params
	source  Source
	logger  logrus.FieldLogger
	metrics *metrics.UTXOMetrics
}

func NewBuilder(chain common.Chain, network common.Network, source Source, logger logrus.FieldLogger) (*Builder, error) {
	params, err := ParamsFor(chain)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("utxo source is nil")
	}
	return &Builder{
		chain:   chain,
		network: network,
		params:  params,
		source:  source,
		logger:  logger.WithField("chain", chain.String()),
		metrics: metrics.NewUTXOMetrics(),
	}, nil
}

// EncodeRecipientOutput validates addr for the builder's network and pays value to it.
func (b *Builder) EncodeRecipientOutput(addr string, value uint64) (TargetOutput, error) {
	script, err := b.payToAddr(addr)
	if err != nil {
		return TargetOutput{}, err
	}
	if value == 0 {
		return TargetOutput{}, fmt.Errorf("amount to %s must be positive", addr)
	}
	if value < b.params.DustLimit {
		return TargetOutput{}, fmt.Errorf("amount %d to %s is below dust limit %d", value, addr, b.params.DustLimit)
	}
	return TargetOutput{Kind: OutputRecipient, Address: addr, Script: script, Value: value}, nil
}

// EncodeChangeOutput validates addr and returns a zero-valued change output; selection sets the value.
func (b *Builder) EncodeChangeOutput(addr string) (TargetOutput, error) {
	script, err := b.payToAddr(addr)
	if err != nil {
		return TargetOutput{}, err
	}
	return TargetOutput{Kind: OutputChange, Address: addr, Script: script}, nil
}

func (b *Builder) payToAddr(addr string) ([]byte, error) {
	a, err := address.NewFromString(b.chain, b.network, addr)
	if err != nil {
		return nil, err
	}
	script, err := a.PayToAddrScript()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build script for %s: %v", types.ErrInvalidAddress, addr, err)
	}
	return script, nil
}

// Build selects inputs from the sender's unspent outputs and returns the unsigned transaction.
// Outputs are ordered recipients, memo, change. Change always returns to the sender.
func (b *Builder) Build(ctx context.Context, req Request) (*Skeleton, error) {
	skeleton, err := b.build(ctx, req)
	inputs := 0
	if skeleton != nil {
		inputs = len(skeleton.Inputs)
	}
	b.metrics.RecordBuild(b.chain.String(), inputs, err)
	return skeleton, err
}

func (b *Builder) build(ctx context.Context, req Request) (*Skeleton, error) {
	payments := req.payments()
	if len(payments) == 0 {
		return nil, errors.New("no recipients")
	}
	if _, perByte := b.params.Fee.(VSizeFee); perByte && req.FeeRate == 0 {
		return nil, errors.New("fee rate must be positive")
	}

	recipients := make([]TargetOutput, 0, len(payments))
	for _, p := range payments {
		out, err := b.EncodeRecipientOutput(p.Address, p.Amount)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, out)
	}

	change, err := b.EncodeChangeOutput(req.Sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	var memo *TargetOutput
	if req.Memo != "" {
		script, err := EncodeMemo(req.Memo, b.params.MaxMemoBytes)
		if err != nil {
			return nil, err
		}
		memo = &TargetOutput{Kind: OutputMemo, Script: script}
	}

	utxos, err := b.source.GetUnspentOutputs(ctx, req.Sender)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get utxos for %s: %w", types.ErrDataUnavailable, req.Sender, err)
	}
	if len(utxos) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoFunds, req.Sender)
	}
	utxos = dedupeUnspent(utxos)
	for i := range utxos {
		if len(utxos[i].Script) == 0 {
			utxos[i].Script = change.Script
		}
	}

	targets := append([]TargetOutput{}, recipients...)
	if memo != nil {
		targets = append(targets, *memo)
	}

	selector := NewAccumulative(b.params, change.Address, change.Script)
	result, err := selector.Select(utxos, targets, req.FeeRate)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"sender":    req.Sender,
			"utxos":     len(utxos),
			"fee_rate":  req.FeeRate,
			"recipient": payments[0].Address,
		}).WithError(err).Warn("coin selection failed")
		return nil, err
	}

	// memo and change are placed explicitly, never taken from the selector's ordering
	skeleton := &Skeleton{
		Chain:       b.chain,
		Version:     b.params.TxVersion,
		BranchID:    b.params.BranchID,
		Inputs:      result.Inputs,
		Outputs:     recipients,
		Fee:         result.Fee,
		ChangeIndex: -1,
		MemoIndex:   -1,
	}
	if memo != nil {
		skeleton.MemoIndex = len(skeleton.Outputs)
		skeleton.Outputs = append(skeleton.Outputs, *memo)
	}
	if c, ok := result.Change(); ok {
		skeleton.ChangeIndex = len(skeleton.Outputs)
		skeleton.Outputs = append(skeleton.Outputs, c)
	}

	in, err := sumInputs(skeleton.Inputs)
	if err != nil {
		return nil, err
	}
	out, err := sumOutputs(skeleton.Outputs)
	if err != nil {
		return nil, err
	}
	if in != out+skeleton.Fee {
		return nil, fmt.Errorf("unbalanced transaction: inputs %d, outputs %d, fee %d", in, out, skeleton.Fee)
	}

	b.logger.WithFields(logrus.Fields{
		"sender":  req.Sender,
		"inputs":  len(skeleton.Inputs),
		"outputs": len(skeleton.Outputs),
		"fee":     skeleton.Fee,
		"change":  skeleton.ChangeIndex >= 0,
		"memo":    req.Memo,
	}).Info("built unsigned transaction")

	return skeleton, nil
}

// dedupeUnspent copies utxos, keeping the first report of each outpoint.
func dedupeUnspent(utxos []UnspentOutput) []UnspentOutput {
	seen := make(map[string]struct{}, len(utxos))
	out := make([]UnspentOutput, 0, len(utxos))
	for _, u := range utxos {
		key := strings.ToLower(u.OutPoint())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
