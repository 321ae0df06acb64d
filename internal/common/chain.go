package common

import (
	"errors"
	"fmt"
	"strings"
)

// Chain identifies a blockchain the deposit pipelines can build transactions for.
type Chain int

const (
	Bitcoin Chain = iota + 1
	Litecoin
	BitcoinCash
	Dogecoin
	Zcash
	Ethereum
	BscChain
	Avalanche
	Base
)

var chainNames = map[Chain]string{
	Bitcoin:     "Bitcoin",
	Litecoin:    "Litecoin",
	BitcoinCash: "Bitcoin-Cash",
	Dogecoin:    "Dogecoin",
	Zcash:       "Zcash",
	Ethereum:    "Ethereum",
	BscChain:    "BSC",
	Avalanche:   "Avalanche",
	Base:        "Base",
}

// thorNames are the chain prefixes THORNode uses in asset notation and inbound_addresses.
var thorNames = map[Chain]string{
	Bitcoin:     "BTC",
	Litecoin:    "LTC",
	BitcoinCash: "BCH",
	Dogecoin:    "DOGE",
	Zcash:       "ZEC",
	Ethereum:    "ETH",
	BscChain:    "BSC",
	Avalanche:   "AVAX",
	Base:        "BASE",
}

var nativeSymbols = map[Chain]string{
	Bitcoin:     "BTC",
	Litecoin:    "LTC",
	BitcoinCash: "BCH",
	Dogecoin:    "DOGE",
	Zcash:       "ZEC",
	Ethereum:    "ETH",
	BscChain:    "BNB",
	Avalanche:   "AVAX",
	Base:        "ETH",
}

var evmIDs = map[Chain]int64{
	Ethereum:  1,
	BscChain:  56,
	Avalanche: 43114,
	Base:      8453,
}

func (c Chain) String() string {
	name, ok := chainNames[c]
	if !ok {
		return fmt.Sprintf("Chain(%d)", int(c))
	}
	return name
}

// ThorName returns the THORNode chain identifier, e.g. "BTC" or "AVAX".
func (c Chain) ThorName() (string, error) {
	name, ok := thorNames[c]
	if !ok {
		return "", fmt.Errorf("chain %s is not routed by THORChain", c)
	}
	return name, nil
}

func (c Chain) NativeSymbol() (string, error) {
	sym, ok := nativeSymbols[c]
	if !ok {
		return "", fmt.Errorf("unknown native symbol for chain %s", c)
	}
	return sym, nil
}

func (c Chain) EvmID() (int64, error) {
	id, ok := evmIDs[c]
	if !ok {
		return 0, fmt.Errorf("chain %s is not an EVM chain", c)
	}
	return id, nil
}

func (c Chain) IsEVM() bool {
	_, ok := evmIDs[c]
	return ok
}

func (c Chain) IsUTXO() bool {
	switch c {
	case Bitcoin, Litecoin, BitcoinCash, Dogecoin, Zcash:
		return true
	default:
		return false
	}
}

// FromString parses a chain by its display name or THORNode identifier, case-insensitively.
func FromString(s string) (Chain, error) {
	if s == "" {
		return 0, errors.New("empty chain name")
	}
	for c, name := range chainNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return FromThorName(s)
}

// FromThorName parses a THORNode chain identifier such as "ETH".
func FromThorName(s string) (Chain, error) {
	for c, name := range thorNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown chain: %s", s)
}

// Network selects address parameters within a chain.
type Network string

const (
	Mainnet  Network = "mainnet"
	Testnet  Network = "testnet"
	Stagenet Network = "stagenet"
)

// ParseNetwork defaults to mainnet for an empty string.
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(s)) {
	case "", Mainnet:
		return Mainnet, nil
	case Testnet:
		return Testnet, nil
	case Stagenet:
		return Stagenet, nil
	default:
		return "", fmt.Errorf("unknown network: %s", s)
	}
}
