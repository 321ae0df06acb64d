package thorchain

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/libhttp"
)

// Client reads vault, router and gas information from a THORNode.
type Client struct {
	baseURL string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
	}
}

type inboundAddressesRequest struct {
	Height string `url:"height,omitempty"`
}

type inboundAddressesResponse []inboundAddress

type inboundAddress struct {
	Chain                string `json:"chain"`
	PubKey               string `json:"pub_key"`
	Address              string `json:"address"`
	Router               string `json:"router"`
	Halted               bool   `json:"halted"`
	GlobalTradingPaused  bool   `json:"global_trading_paused"`
	ChainTradingPaused   bool   `json:"chain_trading_paused"`
	ChainLpActionsPaused bool   `json:"chain_lp_actions_paused"`
	GasRate              string `json:"gas_rate"`
	GasRateUnits         string `json:"gas_rate_units"`
	OutboundTxSize       string `json:"outbound_tx_size"`
	OutboundFee          string `json:"outbound_fee"`
	DustThreshold        string `json:"dust_threshold"`
}

type poolsResponse []pool

type pool struct {
	Asset        string `json:"asset"`
	ShortCode    string `json:"short_code"`
	Status       string `json:"status"`
	Decimals     int    `json:"decimals"`
	BalanceAsset string `json:"balance_asset"`
	BalanceRune  string `json:"balance_rune"`
}

func (c *Client) getInboundAddresses(
	ctx context.Context,
	req inboundAddressesRequest,
) (inboundAddressesResponse, error) {
	params := map[string]string{}

	if req.Height != "" {
		params["height"] = req.Height
	}

	resp, err := libhttp.Call[inboundAddressesResponse](
		ctx,
		http.MethodGet,
		c.baseURL+"/thorchain/inbound_addresses",
		nil,
		nil,
		params,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get inbound addresses: %w", err)
	}

	return resp, nil
}

// inbound returns the inbound entry of chain, or ok=false when THORNode does not list it.
func (c *Client) inbound(ctx context.Context, chain common.Chain) (inboundAddress, bool, error) {
	thorNet, err := chain.ThorName()
	if err != nil {
		return inboundAddress{}, false, err
	}

	info, err := c.getInboundAddresses(ctx, inboundAddressesRequest{})
	if err != nil {
		return inboundAddress{}, false, err
	}

	for _, addr := range info {
		if addr.Chain == thorNet {
			return addr, true, nil
		}
	}
	return inboundAddress{}, false, nil
}

func (c *Client) getPools(ctx context.Context) (poolsResponse, error) {
	resp, err := libhttp.Call[poolsResponse](
		ctx,
		http.MethodGet,
		c.baseURL+"/thorchain/pools",
		nil,
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}

	return resp, nil
}
