package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	ecommon "github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs transactions for the wallet at walletIndex.
type Signer interface {
	Address(walletIndex int) (ecommon.Address, error)
	SignTx(ctx context.Context, walletIndex int, tx *etypes.Transaction, chainID *big.Int) (*etypes.Transaction, error)
}

// KeySigner holds one private key per wallet index.
type KeySigner struct {
	keys []*ecdsa.PrivateKey
}

func NewKeySigner(hexKeys ...string) (*KeySigner, error) {
	keys := make([]*ecdsa.PrivateKey, 0, len(hexKeys))
	for i, h := range hexKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(h), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key %d: %w", i, err)
		}
		keys = append(keys, key)
	}
	return NewKeySignerFromKeys(keys...), nil
}

func NewKeySignerFromKeys(keys ...*ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{keys: keys}
}

func (s *KeySigner) key(walletIndex int) (*ecdsa.PrivateKey, error) {
	if walletIndex < 0 || walletIndex >= len(s.keys) {
		return nil, fmt.Errorf("no key for wallet index %d", walletIndex)
	}
	return s.keys[walletIndex], nil
}

func (s *KeySigner) Address(walletIndex int) (ecommon.Address, error) {
	key, err := s.key(walletIndex)
	if err != nil {
		return ecommon.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func (s *KeySigner) SignTx(_ context.Context, walletIndex int, tx *etypes.Transaction, chainID *big.Int) (*etypes.Transaction, error) {
	key, err := s.key(walletIndex)
	if err != nil {
		return nil, err
	}
	signed, err := etypes.SignTx(tx, etypes.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign tx: %w", err)
	}
	return signed, nil
}
