package utxo

import (
	"math"
	"math/bits"
)

// FeeModel estimates the fee a transaction with the given inputs and outputs must pay.
type FeeModel interface {
	Fee(inputs []UnspentOutput, outputs []TargetOutput, rate FeeRate) uint64
}

// VSizeFee charges rate per estimated virtual byte.
// A fee that does not fit in uint64 saturates, so no input set can cover it.
type VSizeFee struct{}

func (VSizeFee) Fee(inputs []UnspentOutput, outputs []TargetOutput, rate FeeRate) uint64 {
	hi, lo := bits.Mul64(uint64(EstimateVSize(inputs, outputs)), uint64(rate))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// ZIP317Fee estimates the transaction fee based on ZIP-317 logical actions.
// ZIP-317 requires: conventional_fee = marginal_fee × max(grace_actions, logical_actions)
// where marginal_fee = 5000 zatoshis, grace_actions = 2
// For transparent-only txs: logical_actions = max(ceil(input_bytes/150), ceil(output_bytes/34))
// The per-byte rate does not apply.
// See: https://zips.z.cash/zip-0317
type ZIP317Fee struct{}

func (ZIP317Fee) Fee(inputs []UnspentOutput, outputs []TargetOutput, _ FeeRate) uint64 {
	const (
		marginalFee     = 5000 // zatoshis per logical action
		graceActions    = 2    // minimum actions charged
		p2pkhInputSize  = 150  // standard P2PKH input size
		p2pkhOutputSize = 34   // standard P2PKH output size (8 value + 1 len + 25 script)
	)

	totalOutputSize := 0
	for _, out := range outputs {
		totalOutputSize += outputSize(out.Script)
	}

	totalInputSize := len(inputs) * p2pkhInputSize
	inputActions := (totalInputSize + p2pkhInputSize - 1) / p2pkhInputSize
	outputActions := (totalOutputSize + p2pkhOutputSize - 1) / p2pkhOutputSize

	actions := max(graceActions, inputActions, outputActions)
	return uint64(marginalFee * actions)
}
