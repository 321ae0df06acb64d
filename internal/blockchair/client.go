package blockchair

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/libhttp"
	"github.com/vultisig/deposit/internal/types"
	"github.com/vultisig/deposit/internal/utxo"
)

const pageLimit = 50

var slugs = map[common.Chain]string{
	common.Bitcoin:     "bitcoin",
	common.Litecoin:    "litecoin",
	common.BitcoinCash: "bitcoin-cash",
	common.Dogecoin:    "dogecoin",
	common.Zcash:       "zcash",
}

// Client reads unspent outputs and pushes transactions for one UTXO chain.
type Client struct {
	url  string
	slug string
}

var (
	_ utxo.Source      = (*Client)(nil)
	_ utxo.Broadcaster = (*Client)(nil)
)

func NewClient(url string, chain common.Chain) (*Client, error) {
	slug, ok := slugs[chain]
	if !ok {
		return nil, fmt.Errorf("%w: blockchair does not serve %s", types.ErrUnsupportedChain, chain)
	}
	return &Client{
		url:  url,
		slug: slug,
	}, nil
}

type PushResponse struct {
	Data struct {
		TransactionHash string `json:"transaction_hash"`
	} `json:"data"`
}

// Broadcast pushes a signed raw transaction and returns its hash.
func (c *Client) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	res, err := libhttp.Call[PushResponse](
		ctx,
		http.MethodPost,
		c.url+"/"+c.slug+"/push/transaction",
		nil,
		map[string]string{
			"data": hex.EncodeToString(rawTx),
		},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to push tx: %w", err)
	}

	hash, err := chainhash.NewHashFromStr(res.Data.TransactionHash)
	if err != nil {
		return "", fmt.Errorf("failed to parse tx hash: %w", err)
	}
	return hash.String(), nil
}

type Utxo struct {
	BlockId         int    `json:"block_id"`
	TransactionHash string `json:"transaction_hash"`
	Index           uint32 `json:"index"`
	Value           uint64 `json:"value"`
}

type addressInfo struct {
	Address struct {
		Type      string `json:"type"`
		ScriptHex string `json:"script_hex"`
		Balance   int64  `json:"balance"`
	} `json:"address"`
	Utxo []Utxo `json:"utxo"`
}

type addrInfoResponse struct {
	Data    map[string]addressInfo `json:"data"`
	Context struct {
		Code   int    `json:"code"`
		Error  string `json:"error"`
		Offset string `json:"offset"`
	} `json:"context"`
}

func (c *Client) dashboard(ctx context.Context, address string, offset, limit int) (addressInfo, bool, error) {
	res, err := libhttp.Call[addrInfoResponse](
		ctx,
		http.MethodGet,
		c.url+"/"+c.slug+"/dashboards/address/"+address,
		nil,
		nil,
		map[string]string{
			"offset": strconv.Itoa(offset),
			"limit":  fmt.Sprintf("0,%d", limit),
		},
	)
	if err != nil {
		return addressInfo{}, false, fmt.Errorf("failed to fetch address info: %w", err)
	}
	if res.Context.Error != "" {
		return addressInfo{}, false, fmt.Errorf("blockchair: %s", res.Context.Error)
	}

	val, ok := res.Data[address]
	return val, ok, nil
}

// GetUnspentOutputs pages through every unspent output of address.
// Blockchair reports the address script once, it is attached to each output.
func (c *Client) GetUnspentOutputs(ctx context.Context, address string) ([]utxo.UnspentOutput, error) {
	var out []utxo.UnspentOutput
	offset := 0

	for {
		val, ok, err := c.dashboard(ctx, address, offset, pageLimit)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		var script []byte
		if val.Address.ScriptHex != "" {
			script, err = hex.DecodeString(val.Address.ScriptHex)
			if err != nil {
				return nil, fmt.Errorf("invalid script_hex for %s: %w", address, err)
			}
		}

		for _, u := range val.Utxo {
			out = append(out, utxo.UnspentOutput{
				TxHash: u.TransactionHash,
				Index:  u.Index,
				Value:  u.Value,
				Script: script,
			})
		}
		if len(val.Utxo) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return out, nil
}

func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	val, ok, err := c.dashboard(ctx, address, 0, 0)
	if err != nil {
		return 0, err
	}
	if !ok || val.Address.Balance < 0 {
		return 0, nil
	}
	return uint64(val.Address.Balance), nil
}
