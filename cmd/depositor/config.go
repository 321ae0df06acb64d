package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/evm"
)

type config struct {
	Network     string   `default:"mainnet"`
	LogLevel    string   `split_words:"true" default:"info"`
	MetricsPort string   `split_words:"true"`
	JournalPath string   `split_words:"true" default:"depositor.db"`
	SignerKeys  []string `split_words:"true"`
	Thornode    endpoint
	Blockchair  endpoint
	Rpc         rpc
	Deposit     evm.Config
}

type endpoint struct {
	URL string
}

type rpc struct {
	Ethereum  rpcItem
	Avalanche rpcItem
	BSC       rpcItem
	Base      rpcItem
}

type rpcItem struct {
	URL string
}

func (r rpc) url(chain common.Chain) (string, error) {
	var url string
	switch chain {
	case common.Ethereum:
		url = r.Ethereum.URL
	case common.Avalanche:
		url = r.Avalanche.URL
	case common.BscChain:
		url = r.BSC.URL
	case common.Base:
		url = r.Base.URL
	}
	if url == "" {
		return "", fmt.Errorf("no rpc configured for %s", chain)
	}
	return url, nil
}

func newConfig() (config, error) {
	var cfg config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return config{}, fmt.Errorf("failed to process env var: %w", err)
	}
	if cfg.Thornode.URL == "" {
		cfg.Thornode.URL = "https://thornode.ninerealms.com"
	}
	if cfg.Blockchair.URL == "" {
		cfg.Blockchair.URL = "https://api.blockchair.com"
	}
	return cfg, nil
}
