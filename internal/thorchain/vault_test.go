package thorchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/types"
	"github.com/vultisig/deposit/internal/utxo"
)

func mockInboundServer(t *testing.T, inbound inboundAddressesResponse) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thorchain/inbound_addresses" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(inbound))
	}))
}

var testInbound = inboundAddressesResponse{
	{Chain: "BTC", Address: "bc1qvault", GasRate: "12", GasRateUnits: "satsperbyte"},
	{Chain: "ETH", Address: "0xVault", Router: "0xRouter", GasRate: "3", GasRateUnits: "gwei"},
	{Chain: "BSC", Address: "0xBscVault"},
	{Chain: "AVAX", Address: "0xAvaxVault", Router: "0xAvaxRouter", Halted: true},
	{Chain: "DOGE", Address: "DVault", GasRate: "not-a-number"},
}

func TestGetInboundVaultInfo(t *testing.T) {
	server := mockInboundServer(t, testInbound)
	defer server.Close()
	client := NewClient(server.URL)
	ctx := context.Background()

	info, err := client.GetInboundVaultInfo(ctx, common.Ethereum)
	require.NoError(t, err)
	require.Equal(t, "0xVault", info.Address)
	require.Equal(t, "0xRouter", info.Router)

	info, err = client.GetInboundVaultInfo(ctx, common.BscChain)
	require.NoError(t, err)
	require.Empty(t, info.Router)

	_, err = client.GetInboundVaultInfo(ctx, common.Avalanche)
	require.ErrorIs(t, err, types.ErrVaultUnresolved)

	_, err = client.GetInboundVaultInfo(ctx, common.Base)
	require.ErrorIs(t, err, types.ErrVaultUnresolved)
}

func TestGetRouterAddress(t *testing.T) {
	server := mockInboundServer(t, testInbound)
	defer server.Close()
	client := NewClient(server.URL)

	router, err := client.GetRouterAddress(context.Background(), common.Ethereum)
	require.NoError(t, err)
	require.Equal(t, "0xRouter", router)

	_, err = client.GetRouterAddress(context.Background(), common.BscChain)
	require.ErrorIs(t, err, types.ErrRouterUnresolved)
}

func TestInbound_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()
	client := NewClient(server.URL)

	_, err := client.GetInboundVaultInfo(context.Background(), common.Ethereum)
	require.ErrorIs(t, err, types.ErrDataUnavailable)
	_, err = client.GasRate(context.Background(), common.Bitcoin)
	require.ErrorIs(t, err, types.ErrDataUnavailable)
}

func TestGasRate(t *testing.T) {
	server := mockInboundServer(t, testInbound)
	defer server.Close()
	client := NewClient(server.URL)
	ctx := context.Background()

	rate, err := client.GasRate(ctx, common.Ethereum)
	require.NoError(t, err)
	require.Equal(t, uint64(3), rate)

	_, err = client.GasRate(ctx, common.Dogecoin)
	require.Error(t, err)

	_, err = client.GasRate(ctx, common.Litecoin)
	require.ErrorIs(t, err, types.ErrDataUnavailable)

	fees := NewFeeProvider(client, common.Bitcoin)
	feeRate, err := fees.FeeRate(ctx)
	require.NoError(t, err)
	require.Equal(t, utxo.FeeRate(12), feeRate)
}
