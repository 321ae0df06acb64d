package thorchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vultisig/deposit/internal/common"
)

const usdcContract = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

func TestValidateAssetPool(t *testing.T) {
	tests := []struct {
		name     string
		pools    poolsResponse
		chain    common.Chain
		contract string
		errText  string
	}{
		{
			name:  "native available",
			pools: poolsResponse{{Asset: "BTC.BTC", Status: "Available"}, {Asset: "ETH.ETH", Status: "Available"}},
			chain: common.Bitcoin,
		},
		{
			name:    "native staged",
			pools:   poolsResponse{{Asset: "BTC.BTC", Status: "Staged"}},
			chain:   common.Bitcoin,
			errText: "not available",
		},
		{
			name:    "native not found",
			pools:   poolsResponse{{Asset: "ETH.ETH", Status: "Available"}},
			chain:   common.Bitcoin,
			errText: "no pool found for native BTC",
		},
		{
			name:     "token available, case-insensitive contract",
			pools:    poolsResponse{{Asset: "ETH.ETH", Status: "Available"}, {Asset: "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Status: "Available"}},
			chain:    common.Ethereum,
			contract: usdcContract,
		},
		{
			name:     "token on another chain",
			pools:    poolsResponse{{Asset: "BSC.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Status: "Available"}},
			chain:    common.Ethereum,
			contract: usdcContract,
			errText:  "no pool found for",
		},
		{
			name:     "token not found",
			pools:    poolsResponse{{Asset: "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Status: "Available"}},
			chain:    common.Ethereum,
			contract: "0x1234567890123456789012345678901234567890",
			errText:  "no pool found for",
		},
		{
			name:    "unsupported chain",
			chain:   common.Chain(-1),
			errText: "chain not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockPoolsServer(t, tt.pools)
			defer server.Close()

			err := NewClient(server.URL).ValidateAssetPool(context.Background(), tt.chain, tt.contract)
			if tt.errText == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestResolveAsset(t *testing.T) {
	server := mockPoolsServer(t, poolsResponse{
		{Asset: "ETH.ETH", Status: "Available"},
		{Asset: "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Status: "Available"},
		{Asset: "AVAX.SOL-0XFE6B19286885A4F7F55ADAD09C3CD1F906D2478F", Status: "Available"},
	})
	defer server.Close()
	client := NewClient(server.URL)
	ctx := context.Background()

	asset, err := client.ResolveAsset(ctx, common.Avalanche, "")
	require.NoError(t, err)
	require.Equal(t, "AVAX.AVAX", asset)

	asset, err = client.ResolveAsset(ctx, common.Ethereum, usdcContract)
	require.NoError(t, err)
	require.Equal(t, "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", asset)

	_, err = client.ResolveAsset(ctx, common.Ethereum, "0xfe6b19286885a4f7f55adad09c3cd1f906d2478f")
	require.Error(t, err)
}

// Integration test - skipped by default, run with -run TestValidateAssetPool_Integration
func TestValidateAssetPool_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	client := NewClient("https://thornode.ninerealms.com")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := client.ValidateAssetPool(ctx, common.Ethereum, usdcContract)
	if err != nil {
		t.Skipf("thornode unreachable or pool unavailable: %v", err)
	}
}

func mockPoolsServer(t *testing.T, pools poolsResponse) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thorchain/pools" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(pools)
		require.NoError(t, err)
	}))
}
