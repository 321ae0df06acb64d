package utxo

import (
	"context"
	"fmt"
)

// UnspentOutput is a spendable output as reported by the UTXO source.
// Script is the locking script of the output; it may be empty when the
// source does not report it, in which case the builder assumes the sender's script.
type UnspentOutput struct {
	TxHash string
	Index  uint32
	Value  uint64
	Script []byte
}

// OutPoint returns the identity of the output, "txhash:index".
func (u UnspentOutput) OutPoint() string {
	return fmt.Sprintf("%s:%d", u.TxHash, u.Index)
}

type OutputKind int

const (
	OutputRecipient OutputKind = iota
	OutputMemo
	OutputChange
)

func (k OutputKind) String() string {
	switch k {
	case OutputRecipient:
		return "recipient"
	case OutputMemo:
		return "memo"
	case OutputChange:
		return "change"
	default:
		return fmt.Sprintf("OutputKind(%d)", int(k))
	}
}

// TargetOutput is an output of the transaction being built.
// Memo outputs carry a null-data script and zero value.
type TargetOutput struct {
	Kind    OutputKind
	Address string
	Script  []byte
	Value   uint64
}

// FeeRate is expressed in base units per (virtual) byte.
type FeeRate uint64

// SelectionResult is the outcome of coin selection.
// Sum(Inputs) == Sum(Outputs) + Fee always holds.
type SelectionResult struct {
	Inputs  []UnspentOutput
	Outputs []TargetOutput
	Fee     uint64
}

// Change returns the synthesized change output, if any.
func (r *SelectionResult) Change() (TargetOutput, bool) {
	for _, o := range r.Outputs {
		if o.Kind == OutputChange {
			return o, true
		}
	}
	return TargetOutput{}, false
}

// Source lists spendable outputs and balances for an address.
type Source interface {
	GetUnspentOutputs(ctx context.Context, address string) ([]UnspentOutput, error)
	GetBalance(ctx context.Context, address string) (uint64, error)
}

// Broadcaster pushes a fully signed raw transaction and returns its hash.
type Broadcaster interface {
	Broadcast(ctx context.Context, rawTx []byte) (string, error)
}

// FeeProvider provides fee rate information for a UTXO chain.
type FeeProvider interface {
	FeeRate(ctx context.Context) (FeeRate, error)
}

func sumInputs(inputs []UnspentOutput) (uint64, error) {
	var total uint64
	for _, in := range inputs {
		if total > ^uint64(0)-in.Value {
			return 0, fmt.Errorf("input total overflows uint64")
		}
		total += in.Value
	}
	return total, nil
}

func sumOutputs(outputs []TargetOutput) (uint64, error) {
	var total uint64
	for _, out := range outputs {
		if total > ^uint64(0)-out.Value {
			return 0, fmt.Errorf("output total overflows uint64")
		}
		total += out.Value
	}
	return total, nil
}
