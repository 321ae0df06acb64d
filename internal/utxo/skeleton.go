package utxo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/vultisig/deposit/internal/common"
)

const (
	zcashVersionGroupID = 0x26A7270A
	zcashOverwintered   = 1 << 31
)

// Skeleton is an unsigned transaction in the order it was built.
// ChangeIndex and MemoIndex are -1 when the output is absent.
type Skeleton struct {
	Chain       common.Chain
	Version     int32
	BranchID    uint32
	Inputs      []UnspentOutput
	Outputs     []TargetOutput
	Fee         uint64
	ChangeIndex int
	MemoIndex   int
}

func (s *Skeleton) InputTotal() uint64 {
	total, _ := sumInputs(s.Inputs)
	return total
}

func (s *Skeleton) OutputTotal() uint64 {
	total, _ := sumOutputs(s.Outputs)
	return total
}

// Memo returns the memo carried by the skeleton, or "" when there is none.
func (s *Skeleton) Memo() (string, error) {
	if s.MemoIndex < 0 {
		return "", nil
	}
	if s.MemoIndex >= len(s.Outputs) {
		return "", fmt.Errorf("memo index %d out of range", s.MemoIndex)
	}
	return DecodeMemo(s.Outputs[s.MemoIndex].Script)
}

// MsgTx assembles the unsigned transaction in Bitcoin wire format.
func (s *Skeleton) MsgTx() (*wire.MsgTx, error) {
	if s.Chain == common.Zcash {
		return nil, errors.New("zcash transactions are not bitcoin wire compatible, use Serialize")
	}

	tx := wire.NewMsgTx(s.Version)
	for _, in := range s.Inputs {
		hash, err := chainhash.NewHashFromStr(in.TxHash)
		if err != nil {
			return nil, fmt.Errorf("invalid input hash %s: %w", in.TxHash, err)
		}
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, in.Index), nil, nil))
	}
	for _, out := range s.Outputs {
		tx.AddTxOut(wire.NewTxOut(int64(out.Value), out.Script))
	}
	return tx, nil
}

// PSBT wraps the unsigned transaction for an external signer.
// Every input carries its value and script as a witness UTXO; BCH forkid and
// segwit sighashes both commit to the spent amount.
func (s *Skeleton) PSBT() (*psbt.Packet, error) {
	tx, err := s.MsgTx()
	if err != nil {
		return nil, err
	}

	packet, err := psbt.NewFromUnsignedTx(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to create psbt: %w", err)
	}
	for i, in := range s.Inputs {
		if len(in.Script) == 0 {
			return nil, fmt.Errorf("input %s has no script", in.OutPoint())
		}
		packet.Inputs[i].WitnessUtxo = wire.NewTxOut(int64(in.Value), in.Script)
	}
	return packet, nil
}

// Serialize returns the unsigned transaction in the chain's native encoding.
func (s *Skeleton) Serialize() ([]byte, error) {
	if s.Chain == common.Zcash {
		return s.serializeZcashV5()
	}

	tx, err := s.MsgTx()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize tx: %w", err)
	}
	return buf.Bytes(), nil
}

// serializeZcashV5 writes a transparent-only v5 transaction with empty sapling and orchard bundles.
func (s *Skeleton) serializeZcashV5() ([]byte, error) {
	var buf bytes.Buffer
	le := binary.LittleEndian

	_ = binary.Write(&buf, le, uint32(s.Version)|zcashOverwintered)
	_ = binary.Write(&buf, le, uint32(zcashVersionGroupID))
	_ = binary.Write(&buf, le, s.BranchID)
	_ = binary.Write(&buf, le, uint32(0)) // lock time
	_ = binary.Write(&buf, le, uint32(0)) // expiry height

	if err := wire.WriteVarInt(&buf, 0, uint64(len(s.Inputs))); err != nil {
		return nil, err
	}
	for _, in := range s.Inputs {
		hash, err := chainhash.NewHashFromStr(in.TxHash)
		if err != nil {
			return nil, fmt.Errorf("invalid input hash %s: %w", in.TxHash, err)
		}
		buf.Write(hash[:])
		_ = binary.Write(&buf, le, in.Index)
		// unsigned: empty scriptSig
		if err := wire.WriteVarBytes(&buf, 0, nil); err != nil {
			return nil, err
		}
		_ = binary.Write(&buf, le, uint32(wire.MaxTxInSequenceNum))
	}

	if err := wire.WriteVarInt(&buf, 0, uint64(len(s.Outputs))); err != nil {
		return nil, err
	}
	for _, out := range s.Outputs {
		_ = binary.Write(&buf, le, out.Value)
		if err := wire.WriteVarBytes(&buf, 0, out.Script); err != nil {
			return nil, err
		}
	}

	// nSpendsSapling, nOutputsSapling, nActionsOrchard
	buf.Write([]byte{0, 0, 0})
	return buf.Bytes(), nil
}
