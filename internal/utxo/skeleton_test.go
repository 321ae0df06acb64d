package utxo

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/wire"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/utxo/address"
)

func TestSkeleton_MsgTxAndPSBT(t *testing.T) {
	sender, senderScript := p2wpkhAddress(t, 9)
	recipient, recipientScript := p2wpkhAddress(t, 1)

	source := &mockSource{utxos: []UnspentOutput{
		{TxHash: txHash(1), Index: 3, Value: 40000, Script: senderScript},
		{TxHash: txHash(2), Index: 0, Value: 40000, Script: senderScript},
	}}
	sk, err := newBTCBuilder(t, source).Build(context.Background(), Request{
		Recipient: recipient,
		Amount:    60000,
		Memo:      "=:ETH.ETH:0xabc",
		FeeRate:   2,
		Sender:    sender,
	})
	require.NoError(t, err)

	tx, err := sk.MsgTx()
	require.NoError(t, err)
	require.Equal(t, int32(2), tx.Version)
	require.Len(t, tx.TxIn, 2)
	require.Equal(t, txHash(1), tx.TxIn[0].PreviousOutPoint.Hash.String())
	require.Equal(t, uint32(3), tx.TxIn[0].PreviousOutPoint.Index)
	require.Equal(t, uint32(wire.MaxTxInSequenceNum), tx.TxIn[0].Sequence)
	require.Empty(t, tx.TxIn[0].SignatureScript)

	require.Len(t, tx.TxOut, len(sk.Outputs))
	require.Equal(t, recipientScript, tx.TxOut[0].PkScript)
	require.Equal(t, int64(60000), tx.TxOut[0].Value)
	for i, out := range sk.Outputs {
		require.Equal(t, out.Script, tx.TxOut[i].PkScript)
		require.Equal(t, int64(out.Value), tx.TxOut[i].Value)
	}

	packet, err := sk.PSBT()
	require.NoError(t, err)
	require.Len(t, packet.Inputs, 2)
	for i, in := range packet.Inputs {
		require.NotNil(t, in.WitnessUtxo)
		require.Equal(t, int64(sk.Inputs[i].Value), in.WitnessUtxo.Value)
		require.Equal(t, senderScript, in.WitnessUtxo.PkScript)
	}

	raw, err := sk.Serialize()
	require.NoError(t, err)
	var decoded wire.MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))
	require.Equal(t, tx.TxHash(), decoded.TxHash())
}

func TestSkeleton_LegacyInputsCarryUtxo(t *testing.T) {
	sk := &Skeleton{
		Chain:   common.Dogecoin,
		Version: 1,
		Inputs:  []UnspentOutput{{TxHash: txHash(1), Value: 5e8, Script: p2pkhScript(t, 1)}},
		Outputs: []TargetOutput{{Kind: OutputRecipient, Script: p2pkhScript(t, 2), Value: 2e8}},
	}

	packet, err := sk.PSBT()
	require.NoError(t, err)
	require.NotNil(t, packet.Inputs[0].WitnessUtxo)
	require.Equal(t, int64(5e8), packet.Inputs[0].WitnessUtxo.Value)
	require.Equal(t, p2pkhScript(t, 1), packet.Inputs[0].WitnessUtxo.PkScript)

	sk.Inputs[0].Script = nil
	_, err = sk.PSBT()
	require.Error(t, err)
}

func TestSkeleton_InvalidInputHash(t *testing.T) {
	sk := &Skeleton{
		Chain:   common.Bitcoin,
		Inputs:  []UnspentOutput{{TxHash: "zz"}},
		Outputs: []TargetOutput{{Script: p2pkhScript(t, 2), Value: 1000}},
	}
	_, err := sk.MsgTx()
	require.Error(t, err)
}

func TestSkeleton_ZcashV5(t *testing.T) {
	zec := func(seed byte) string {
		return base58.CheckEncode(append([]byte{address.ZcashMainNetP2PKH[1]}, bytes.Repeat([]byte{seed}, 20)...), address.ZcashMainNetP2PKH[0])
	}
	source := &mockSource{utxos: []UnspentOutput{{TxHash: txHash(1), Index: 1, Value: 500000}}}
	b, err := NewBuilder(common.Zcash, common.Mainnet, source, logrus.New())
	require.NoError(t, err)

	sk, err := b.Build(context.Background(), Request{Recipient: zec(1), Amount: 100000, Sender: zec(9)})
	require.NoError(t, err)

	_, err = sk.MsgTx()
	require.Error(t, err)
	_, err = sk.PSBT()
	require.Error(t, err)

	raw, err := sk.Serialize()
	require.NoError(t, err)

	le := binary.LittleEndian
	require.Equal(t, uint32(0x80000005), le.Uint32(raw[0:4]))
	require.Equal(t, uint32(0x26A7270A), le.Uint32(raw[4:8]))
	require.Equal(t, uint32(ZcashBranchNU61), le.Uint32(raw[8:12]))
	require.Equal(t, byte(1), raw[20], "one transparent input")
	require.Equal(t, []byte{0, 0, 0}, raw[len(raw)-3:])

	// header(20) + vin count(1) + outpoint(36) + empty script(1) + sequence(4) + vout count(1)
	// + 2 p2pkh outputs(2*34) + empty shielded bundles(3)
	require.Len(t, raw, 20+1+36+1+4+1+2*34+3)
}
