package utxo

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
)

const (
	witnessScaleFactor = 4

	// version + locktime
	txFixedSize = 4 + 4
	// segwit marker + flag, counted in weight units
	segwitMarkerWeight = 2

	// P2TR key-path spend: outpoint + empty sigScript + sequence, witness is
	// item count + length + 64-byte schnorr signature.
	redeemP2TRInputSize          = 32 + 4 + 1 + 4
	redeemP2TRInputWitnessWeight = 1 + 1 + 64
)

// inputWeight returns the non-witness size and witness weight of spending script.
// Unknown scripts are costed as P2PKH, the largest common single-key spend.
func inputWeight(script []byte) (base int, witness int, segwit bool) {
	switch {
	case len(script) == 0:
		return txsizes.RedeemP2PKHInputSize, 0, false
	case txscript.IsPayToWitnessPubKeyHash(script):
		return txsizes.RedeemP2WPKHInputSize, txsizes.RedeemP2WPKHInputWitnessWeight, true
	case txscript.IsPayToTaproot(script):
		return redeemP2TRInputSize, redeemP2TRInputWitnessWeight, true
	case txscript.IsPayToScriptHash(script):
		// assumed nested P2WPKH, the only P2SH form a single-key wallet produces
		return txsizes.RedeemNestedP2WPKHInputSize, txsizes.RedeemP2WPKHInputWitnessWeight, true
	default:
		return txsizes.RedeemP2PKHInputSize, 0, false
	}
}

// outputSize is value + compactSize(script length) + script.
func outputSize(script []byte) int {
	return 8 + wire.VarIntSerializeSize(uint64(len(script))) + len(script)
}

// EstimateVSize estimates the virtual size in bytes of a transaction spending
// inputs into outputs once it is signed.
func EstimateVSize(inputs []UnspentOutput, outputs []TargetOutput) int {
	base := txFixedSize +
		wire.VarIntSerializeSize(uint64(len(inputs))) +
		wire.VarIntSerializeSize(uint64(len(outputs)))
	witness := 0
	anySegwit := false

	for _, in := range inputs {
		b, w, segwit := inputWeight(in.Script)
		base += b
		witness += w
		anySegwit = anySegwit || segwit
	}
	for _, out := range outputs {
		base += outputSize(out.Script)
	}

	if !anySegwit {
		return base
	}

	// legacy inputs in a segwit transaction still carry an empty witness stack
	for _, in := range inputs {
		if _, _, segwit := inputWeight(in.Script); !segwit {
			witness++
		}
	}

	weight := base*witnessScaleFactor + segwitMarkerWeight + witness
	return (weight + witnessScaleFactor - 1) / witnessScaleFactor
}
