package utxo

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txrules"

	"github.com/vultisig/deposit/internal/types"
)

// Accumulative selects inputs largest first until the targets and the fee are covered.
// Change goes to ChangeScript when the remainder is not dust, otherwise it is left to the fee.
type Accumulative struct {
	Fee           FeeModel
	DustLimit     uint64
	ChangeScript  []byte
	ChangeAddress string
}

// NewAccumulative returns a selector using the chain parameters and the sender's change script.
func NewAccumulative(params Params, changeAddress string, changeScript []byte) Accumulative {
	return Accumulative{
		Fee:           params.Fee,
		DustLimit:     params.DustLimit,
		ChangeScript:  changeScript,
		ChangeAddress: changeAddress,
	}
}

func (a Accumulative) Select(available []UnspentOutput, targets []TargetOutput, rate FeeRate) (*SelectionResult, error) {
	if len(targets) == 0 {
		return nil, errors.New("no target outputs")
	}
	if a.Fee == nil {
		return nil, errors.New("fee model is not set")
	}
	if len(a.ChangeScript) == 0 {
		return nil, errors.New("change script is not set")
	}

	outTotal, err := sumOutputs(targets)
	if err != nil {
		return nil, err
	}

	// stable: equal values keep discovery order
	sorted := slices.Clone(available)
	slices.SortStableFunc(sorted, func(x, y UnspentOutput) int {
		return cmp.Compare(y.Value, x.Value)
	})

	var (
		chosen  []UnspentOutput
		inTotal uint64
		fee     = a.Fee.Fee(nil, targets, rate)
	)
	for _, in := range sorted {
		with := append(slices.Clone(chosen), in)
		nextFee := a.Fee.Fee(with, targets, rate)
		if nextFee > fee && nextFee-fee >= in.Value {
			// spending it costs more than it brings
			continue
		}
		if inTotal > ^uint64(0)-in.Value {
			return nil, errors.New("input total overflows uint64")
		}

		chosen = with
		inTotal += in.Value
		fee = nextFee

		if outTotal <= ^uint64(0)-fee && inTotal >= outTotal+fee {
			return a.finalize(chosen, targets, inTotal, outTotal, rate), nil
		}
	}

	return nil, fmt.Errorf("%w: have %d, need %d plus fee %d", types.ErrInsufficientFunds, inTotal, outTotal, fee)
}

// finalize adds a change output when what remains after paying for it is spendable.
func (a Accumulative) finalize(inputs []UnspentOutput, targets []TargetOutput, inTotal, outTotal uint64, rate FeeRate) *SelectionResult {
	change := TargetOutput{
		Kind:    OutputChange,
		Address: a.ChangeAddress,
		Script:  a.ChangeScript,
	}
	withChange := append(slices.Clone(targets), change)
	feeWithChange := a.Fee.Fee(inputs, withChange, rate)

	if inTotal >= outTotal+feeWithChange {
		remainder := inTotal - outTotal - feeWithChange
		if !a.IsDust(remainder) {
			withChange[len(withChange)-1].Value = remainder
			return &SelectionResult{
				Inputs:  inputs,
				Outputs: withChange,
				Fee:     feeWithChange,
			}
		}
	}

	return &SelectionResult{
		Inputs:  inputs,
		Outputs: slices.Clone(targets),
		Fee:     inTotal - outTotal,
	}
}

// IsDust reports whether a change output of value would be rejected by relay policy.
func (a Accumulative) IsDust(value uint64) bool {
	if value < a.DustLimit {
		return true
	}
	return txrules.IsDustOutput(wire.NewTxOut(int64(value), a.ChangeScript), txrules.DefaultRelayFeePerKb)
}
