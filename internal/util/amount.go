package util

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// IntegerString renders a base-unit amount as a plain decimal integer string,
// the form contract call data and THORNode quotes expect.
func IntegerString(amount *big.Int) (string, error) {
	if amount == nil {
		return "", fmt.Errorf("amount is nil")
	}
	if amount.Sign() < 0 {
		return "", fmt.Errorf("amount is negative: %s", amount.String())
	}
	return amount.Text(10), nil
}

// ParseBaseUnits parses a non-negative integer base-unit string.
func ParseBaseUnits(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount: %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount is negative: %s", s)
	}
	return v, nil
}

// ParseFeeRate parses a per-byte fee rate and truncates any fractional part,
// e.g. "12.9" -> 12. The value never passes through floating point.
func ParseFeeRate(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("fee rate cannot be empty")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("fee rate is negative: %s", s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid fee rate: %s", s)
		}
	}

	rate, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fee rate %s: %w", s, err)
	}
	return rate, nil
}

// Uint64 converts a base-unit amount to uint64, failing instead of wrapping.
func Uint64(amount *big.Int) (uint64, error) {
	if amount == nil || amount.Sign() < 0 || !amount.IsUint64() {
		return 0, fmt.Errorf("amount %v does not fit into uint64", amount)
	}
	return amount.Uint64(), nil
}
