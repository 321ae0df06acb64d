package utxo

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/types"
)

// Params holds the per-chain policy the builder and selector depend on.
type Params struct {
	// DustLimit is the smallest change output the chain relays.
	DustLimit uint64
	// MaxMemoBytes is the largest OP_RETURN payload the chain treats as standard.
	MaxMemoBytes int
	// TxVersion is the version written into the unsigned transaction.
	TxVersion int32
	// BranchID is the Zcash consensus branch the transaction commits to.
	BranchID uint32
	Fee      FeeModel
}

// ZcashBranchNU61 is the consensus branch id of the Zcash NU6.1 upgrade.
const ZcashBranchNU61 = 0x4DEC4DF0

// ParamsFor returns the chain-specific builder parameters.
func ParamsFor(chain common.Chain) (Params, error) {
	switch chain {
	case common.Bitcoin:
		return Params{
			DustLimit:    546,
			MaxMemoBytes: txscript.MaxDataCarrierSize,
			TxVersion:    2,
			Fee:          VSizeFee{},
		}, nil
	case common.Litecoin:
		// Litecoin SegWit dust limit (P2WPKH)
		return Params{
			DustLimit:    5460,
			MaxMemoBytes: txscript.MaxDataCarrierSize,
			TxVersion:    2,
			Fee:          VSizeFee{},
		}, nil
	case common.BitcoinCash:
		// BCH forked from BTC with the same dust limit but a larger data carrier
		return Params{
			DustLimit:    546,
			MaxMemoBytes: 220,
			TxVersion:    2,
			Fee:          VSizeFee{},
		}, nil
	case common.Dogecoin:
		// Dogecoin dust limit (1 DOGE minimum to avoid spam)
		return Params{
			DustLimit:    100000000,
			MaxMemoBytes: txscript.MaxDataCarrierSize,
			TxVersion:    1,
			Fee:          VSizeFee{},
		}, nil
	case common.Zcash:
		return Params{
			DustLimit:    546,
			MaxMemoBytes: txscript.MaxDataCarrierSize,
			TxVersion:    5,
			BranchID:     ZcashBranchNU61,
			Fee:          ZIP317Fee{},
		}, nil
	default:
		return Params{}, fmt.Errorf("%w: %s is not a UTXO chain", types.ErrUnsupportedChain, chain)
	}
}
