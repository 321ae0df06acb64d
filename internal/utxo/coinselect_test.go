package utxo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/types"
)

func btcSelector(t *testing.T) (Accumulative, []byte) {
	t.Helper()
	params, err := ParamsFor(common.Bitcoin)
	require.NoError(t, err)
	changeAddr, changeScript := p2wpkhAddress(t, 9)
	return NewAccumulative(params, changeAddr, changeScript), changeScript
}

func TestAccumulative_SingleInputWithChange(t *testing.T) {
	selector, changeScript := btcSelector(t)
	recipientAddr, recipientScript := p2wpkhAddress(t, 1)

	available := []UnspentOutput{{TxHash: txHash(1), Index: 0, Value: 100000, Script: changeScript}}
	targets := []TargetOutput{{Kind: OutputRecipient, Address: recipientAddr, Script: recipientScript, Value: 50000}}

	res, err := selector.Select(available, targets, 1)
	require.NoError(t, err)
	require.Len(t, res.Inputs, 1)
	require.Len(t, res.Outputs, 2)
	require.Equal(t, uint64(50000), res.Outputs[0].Value)

	change, ok := res.Change()
	require.True(t, ok)
	require.Equal(t, changeScript, change.Script)
	require.Equal(t, uint64(100000-50000)-res.Fee, change.Value)
	require.Equal(t, VSizeFee{}.Fee(res.Inputs, res.Outputs, 1), res.Fee)
	require.Equal(t, uint64(141), res.Fee)
}

func TestAccumulative_Invariants(t *testing.T) {
	_, recipientScript := p2wpkhAddress(t, 1)
	memo, err := EncodeMemo("=:ETH.ETH:0x86d526d6624AbC0178cF7296cD538Ecc080A95F1", 80)
	require.NoError(t, err)

	values := []uint64{1200, 546, 90000, 31000, 31000, 250000, 7000, 15000, 640, 120000}

	tests := []struct {
		name    string
		amount  uint64
		rate    FeeRate
		memo    bool
		wantErr bool
	}{
		{name: "small", amount: 1000, rate: 1},
		{name: "needs several inputs", amount: 400000, rate: 5, memo: true},
		{name: "high rate", amount: 200000, rate: 150},
		{name: "almost everything", amount: 540000, rate: 2},
		{name: "more than available", amount: 546000, rate: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector, changeScript := btcSelector(t)
			available := make([]UnspentOutput, 0, len(values))
			for i, v := range values {
				available = append(available, UnspentOutput{TxHash: txHash(byte(i)), Index: uint32(i), Value: v, Script: changeScript})
			}
			targets := []TargetOutput{{Kind: OutputRecipient, Script: recipientScript, Value: tt.amount}}
			if tt.memo {
				targets = append(targets, TargetOutput{Kind: OutputMemo, Script: memo})
			}

			res, err := selector.Select(available, targets, tt.rate)
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrInsufficientFunds)
				return
			}
			require.NoError(t, err)

			in, err := sumInputs(res.Inputs)
			require.NoError(t, err)
			out, err := sumOutputs(res.Outputs)
			require.NoError(t, err)
			require.Equal(t, in, out+res.Fee)
			require.GreaterOrEqual(t, res.Fee, VSizeFee{}.Fee(res.Inputs, res.Outputs, tt.rate))

			changes := 0
			for _, o := range res.Outputs {
				if o.Kind == OutputChange {
					changes++
					require.False(t, selector.IsDust(o.Value))
				}
			}
			require.LessOrEqual(t, changes, 1)
			if changes == 0 {
				// the absorbed surplus could not have paid for a spendable change output
				withChange := append(res.Outputs, TargetOutput{Kind: OutputChange, Script: changeScript})
				feeWithChange := VSizeFee{}.Fee(res.Inputs, withChange, tt.rate)
				if in >= out+feeWithChange {
					require.True(t, selector.IsDust(in-out-feeWithChange))
				}
			}

			for i := 1; i < len(res.Inputs); i++ {
				require.GreaterOrEqual(t, res.Inputs[i-1].Value, res.Inputs[i].Value)
			}
		})
	}
}

func TestAccumulative_InsufficientFunds(t *testing.T) {
	selector, changeScript := btcSelector(t)
	_, recipientScript := p2wpkhAddress(t, 1)

	available := []UnspentOutput{
		{TxHash: txHash(1), Value: 1000, Script: changeScript},
		{TxHash: txHash(2), Value: 2000, Script: changeScript},
	}

	_, err := selector.Select(available, []TargetOutput{{Script: recipientScript, Value: 5000}}, 1)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	// exact value leaves nothing for the fee
	_, err = selector.Select(available, []TargetOutput{{Script: recipientScript, Value: 3000}}, 1)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	_, err = selector.Select(nil, []TargetOutput{{Script: recipientScript, Value: 1}}, 1)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestAccumulative_HugeFeeRateIsInsufficient(t *testing.T) {
	selector, changeScript := btcSelector(t)
	_, recipientScript := p2wpkhAddress(t, 1)

	available := []UnspentOutput{{TxHash: txHash(1), Value: 100000, Script: changeScript}}
	targets := []TargetOutput{{Script: recipientScript, Value: 50000}}

	for _, rate := range []FeeRate{1 << 63, FeeRate(^uint64(0)), 1 << 60} {
		_, err := selector.Select(available, targets, rate)
		require.ErrorIs(t, err, types.ErrInsufficientFunds, "rate %d", rate)
	}
}

func TestAccumulative_SkipsInputsCostingMoreThanTheyBring(t *testing.T) {
	selector, changeScript := btcSelector(t)
	_, recipientScript := p2wpkhAddress(t, 1)

	available := []UnspentOutput{
		{TxHash: txHash(1), Value: 60000, Script: changeScript},
		{TxHash: txHash(2), Value: 300, Script: changeScript},
	}

	_, err := selector.Select(available, []TargetOutput{{Script: recipientScript, Value: 59000}}, 10)
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Contains(t, err.Error(), "have 60000")
}

func TestAccumulative_AbsorbsDustRemainder(t *testing.T) {
	selector, changeScript := btcSelector(t)
	_, recipientScript := p2wpkhAddress(t, 1)

	available := []UnspentOutput{{TxHash: txHash(1), Value: 100000, Script: changeScript}}
	withChange := []TargetOutput{{Script: recipientScript}, {Kind: OutputChange, Script: changeScript}}
	feeWithChange := VSizeFee{}.Fee(available, withChange, 1)
	amount := 100000 - feeWithChange - 100

	res, err := selector.Select(available, []TargetOutput{{Script: recipientScript, Value: amount}}, 1)
	require.NoError(t, err)
	_, ok := res.Change()
	require.False(t, ok)
	require.Len(t, res.Outputs, 1)
	require.Equal(t, 100000-amount, res.Fee)
}

func TestAccumulative_StableOrderForEqualValues(t *testing.T) {
	selector, changeScript := btcSelector(t)
	_, recipientScript := p2wpkhAddress(t, 1)

	available := []UnspentOutput{
		{TxHash: txHash(3), Value: 10000, Script: changeScript},
		{TxHash: txHash(1), Value: 50000, Script: changeScript},
		{TxHash: txHash(2), Value: 50000, Script: changeScript},
	}

	res, err := selector.Select(available, []TargetOutput{{Script: recipientScript, Value: 20000}}, 1)
	require.NoError(t, err)
	require.Len(t, res.Inputs, 1)
	require.Equal(t, txHash(1), res.Inputs[0].TxHash)

	res, err = selector.Select(available, []TargetOutput{{Script: recipientScript, Value: 60000}}, 1)
	require.NoError(t, err)
	require.Len(t, res.Inputs, 2)
	require.Equal(t, txHash(1), res.Inputs[0].TxHash)
	require.Equal(t, txHash(2), res.Inputs[1].TxHash)
}

func TestAccumulative_DogeDustLimit(t *testing.T) {
	params, err := ParamsFor(common.Dogecoin)
	require.NoError(t, err)
	selector := NewAccumulative(params, "", p2pkhScript(t, 4))

	require.True(t, selector.IsDust(99_999_999))
	require.False(t, selector.IsDust(100_000_000))
}

func TestAccumulative_RequiresTargets(t *testing.T) {
	selector, _ := btcSelector(t)
	_, err := selector.Select([]UnspentOutput{{Value: 1}}, nil, 1)
	require.Error(t, err)
}
