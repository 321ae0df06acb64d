package util

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/vultisig/deposit/internal/common"
)

// NativeDecimals maps chain to native asset decimals
var NativeDecimals = map[common.Chain]int{
	common.Bitcoin:     8,
	common.Litecoin:    8,
	common.BitcoinCash: 8,
	common.Dogecoin:    8,
	common.Zcash:       8,
	common.Ethereum:    18,
	common.BscChain:    18,
	common.Avalanche:   18,
	common.Base:        18,
}

// GetNativeDecimals returns the native asset decimals for a chain
func GetNativeDecimals(chain common.Chain) (int, error) {
	decimals, ok := NativeDecimals[chain]
	if !ok {
		return 0, fmt.Errorf("unknown chain: %s", chain.String())
	}
	return decimals, nil
}

// ToBaseUnits converts a human-readable amount to base units
// e.g., "10" USDC (6 decimals) -> "10000000"
// Digits beyond the asset's precision are truncated, never rounded.
func ToBaseUnits(amount string, decimals int) (*big.Int, error) {
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	negative := false
	if strings.HasPrefix(amount, "-") {
		negative = true
		amount = amount[1:]
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}
	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}

	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	combined := strings.TrimLeft(whole+frac, "0")
	if combined == "" {
		combined = "0"
	}

	for _, r := range combined {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid amount: %s", amount)
		}
	}

	result, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}

	if negative {
		result.Neg(result)
	}

	return result, nil
}

// FromBaseUnits converts base units to a human-readable amount
// e.g., "10000000" with 6 decimals -> "10"
func FromBaseUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()
	negative := false
	if strings.HasPrefix(str, "-") {
		negative = true
		str = str[1:]
	}

	if len(str) <= decimals {
		str = strings.Repeat("0", decimals-len(str)+1) + str
	}

	insertPos := len(str) - decimals
	whole := str[:insertPos]
	frac := strings.TrimRight(str[insertPos:], "0")

	result := whole
	if frac != "" {
		result = whole + "." + frac
	}

	if negative {
		result = "-" + result
	}

	return result
}
