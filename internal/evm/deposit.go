package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/metrics"
	"github.com/vultisig/deposit/internal/types"
	"github.com/vultisig/deposit/internal/util"
)

const (
	DefaultExpiryWindow   = 900 * time.Second
	DefaultRouterGasLimit = 160_000
)

type Config struct {
	ExpiryWindow   time.Duration `default:"15m"`
	RouterGasLimit uint64        `default:"160000"`
}

func DefaultConfig() Config {
	return Config{
		ExpiryWindow:   DefaultExpiryWindow,
		RouterGasLimit: DefaultRouterGasLimit,
	}
}

// DepositRequest is one deposit into the chain's vault. Amount is in base units.
// A nil MaxFeeRate accepts any gas price.
type DepositRequest struct {
	Asset       Asset
	Amount      *big.Int
	Memo        string
	WalletIndex int
	MaxFeeRate  *big.Int
}

type DepositState int

const (
	DepositStart DepositState = iota
	DepositNativeTransfer
	DepositRouterDeposit
	DepositSubmitted
	DepositFailed
)

func (s DepositState) String() string {
	switch s {
	case DepositStart:
		return "start"
	case DepositNativeTransfer:
		return "native_transfer"
	case DepositRouterDeposit:
		return "router_deposit"
	case DepositSubmitted:
		return "submitted"
	case DepositFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Depositor moves funds from a wallet into the current vault of one EVM chain.
type Depositor struct {
	chain     common.Chain
	cfg       Config
	directory VaultDirectory
	state     *ChainState
	allowance *AllowanceChecker
	signer    Signer
	sender    *txSender
	logger    logrus.FieldLogger
	metrics   *metrics.EVMMetrics
}

func NewDepositor(
	chain common.Chain,
	chainID *big.Int,
	reader ChainReader,
	directory VaultDirectory,
	gas GasRateSource,
	signer Signer,
	cfg Config,
	logger logrus.FieldLogger,
) (*Depositor, error) {
	if !chain.IsEVM() {
		return nil, fmt.Errorf("%w: %s is not an EVM chain", types.ErrUnsupportedChain, chain)
	}
	if chainID == nil {
		return nil, errors.New("chain id is nil")
	}
	if reader == nil || directory == nil || signer == nil {
		return nil, errors.New("reader, directory and signer are required")
	}
	if cfg.ExpiryWindow <= 0 {
		cfg.ExpiryWindow = DefaultExpiryWindow
	}
	if cfg.RouterGasLimit == 0 {
		cfg.RouterGasLimit = DefaultRouterGasLimit
	}

	log := logger.WithField("chain", chain.String())
	state := NewChainState(chain, reader, gas, logger)
	sender := &txSender{reader: reader, signer: signer, chainID: chainID}
	return &Depositor{
		chain:     chain,
		cfg:       cfg,
		directory: directory,
		state:     state,
		allowance: newAllowanceChecker(chain, reader, state, sender, log),
		signer:    signer,
		sender:    sender,
		logger:    log,
		metrics:   metrics.NewEVMMetrics(),
	}, nil
}

func (d *Depositor) Chain() common.Chain          { return d.chain }
func (d *Depositor) State() *ChainState           { return d.state }
func (d *Depositor) Allowance() *AllowanceChecker { return d.allowance }
func (d *Depositor) Config() Config               { return d.cfg }
func (d *Depositor) Address(walletIndex int) (ecommon.Address, error) {
	return d.signer.Address(walletIndex)
}

// SendDeposit submits the deposit and returns its hash without waiting for inclusion.
// Gas assets go straight to the vault with the memo as call data; tokens go through
// the router's depositWithExpiry and need an allowance for the router first.
func (d *Depositor) SendDeposit(ctx context.Context, req DepositRequest) (ecommon.Hash, error) {
	hash, err := d.sendDeposit(ctx, req)
	d.metrics.RecordDeposit(d.chain.String(), req.Asset.Capability().String(), err)
	return hash, err
}

func (d *Depositor) sendDeposit(ctx context.Context, req DepositRequest) (ecommon.Hash, error) {
	log := d.logger.WithFields(logrus.Fields{
		"asset":        req.Asset.String(),
		"amount":       req.Amount.String(),
		"wallet_index": req.WalletIndex,
	})
	transition := func(s DepositState) {
		log.WithField("state", s.String()).Debug("deposit state")
	}
	fail := func(err error) (ecommon.Hash, error) {
		log.WithField("state", DepositFailed.String()).WithError(err).Error("deposit failed")
		return ecommon.Hash{}, err
	}

	transition(DepositStart)
	if req.Asset.Chain != d.chain {
		return fail(fmt.Errorf("asset %s is not on %s", req.Asset, d.chain))
	}
	amountStr, err := util.IntegerString(req.Amount)
	if err != nil {
		return fail(err)
	}
	amount, err := util.ParseBaseUnits(amountStr)
	if err != nil {
		return fail(err)
	}
	if amount.Sign() == 0 {
		return fail(errors.New("deposit amount must be positive"))
	}

	vault, err := d.directory.GetInboundVaultInfo(ctx, d.chain)
	if err != nil {
		return fail(err)
	}
	if !ecommon.IsHexAddress(vault.Address) {
		return fail(fmt.Errorf("%w: invalid vault address %q", types.ErrVaultUnresolved, vault.Address))
	}
	vaultAddr := ecommon.HexToAddress(vault.Address)
	log = log.WithField("vault", vaultAddr.Hex())

	var hash ecommon.Hash
	switch req.Asset.Capability() {
	case NativeTransferCapable:
		transition(DepositNativeTransfer)
		hash, err = d.nativeTransfer(ctx, req, amount, vaultAddr)
	case RouterDepositCapable:
		if !ecommon.IsHexAddress(vault.Router) {
			return fail(fmt.Errorf("%w: %s has no router", types.ErrRouterUnresolved, d.chain))
		}
		transition(DepositRouterDeposit)
		hash, err = d.routerDeposit(ctx, req, amount, vaultAddr, ecommon.HexToAddress(vault.Router))
	default:
		err = fmt.Errorf("asset %s has no deposit capability", req.Asset)
	}
	if err != nil {
		return fail(err)
	}

	log.WithFields(logrus.Fields{
		"state":   DepositSubmitted.String(),
		"tx_hash": hash.Hex(),
	}).Info("deposit submitted")
	return hash, nil
}

func (d *Depositor) nativeTransfer(ctx context.Context, req DepositRequest, amount *big.Int, vault ecommon.Address) (ecommon.Hash, error) {
	gasPrice, err := d.gasPrice(ctx, req.MaxFeeRate)
	if err != nil {
		return ecommon.Hash{}, err
	}
	return d.sender.send(ctx, txRequest{
		walletIndex: req.WalletIndex,
		to:          vault,
		value:       amount,
		data:        []byte(req.Memo),
		gasPrice:    gasPrice,
	})
}

func (d *Depositor) routerDeposit(ctx context.Context, req DepositRequest, amount *big.Int, vault, router ecommon.Address) (ecommon.Hash, error) {
	owner, err := d.signer.Address(req.WalletIndex)
	if err != nil {
		return ecommon.Hash{}, err
	}
	approved, err := d.allowance.IsApproved(ctx, req.Asset.Contract, amount, owner, router)
	if err != nil {
		return ecommon.Hash{}, err
	}
	if !approved {
		return ecommon.Hash{}, fmt.Errorf("%w: router %s cannot spend %s %s of %s",
			types.ErrAllowanceInsufficient, router.Hex(), amount, req.Asset, owner.Hex())
	}

	ts, err := d.state.LatestBlockTimestamp(ctx)
	if err != nil {
		return ecommon.Hash{}, err
	}
	expiry := new(big.Int).SetUint64(ts + uint64(d.cfg.ExpiryWindow/time.Second))

	data, err := PackDepositWithExpiry(DepositCall{
		Vault:  vault,
		Asset:  req.Asset.Contract,
		Amount: amount,
		Memo:   req.Memo,
		Expiry: expiry,
	})
	if err != nil {
		return ecommon.Hash{}, err
	}

	gasPrice, err := d.gasPrice(ctx, req.MaxFeeRate)
	if err != nil {
		return ecommon.Hash{}, err
	}
	return d.sender.send(ctx, txRequest{
		walletIndex: req.WalletIndex,
		to:          router,
		data:        data,
		gasLimit:    d.cfg.RouterGasLimit,
		gasPrice:    gasPrice,
	})
}

// gasPrice returns the fast rate, refusing it when it exceeds maxFeeRate.
func (d *Depositor) gasPrice(ctx context.Context, maxFeeRate *big.Int) (*big.Int, error) {
	fees, err := d.state.EstimateFeeRates(ctx)
	if err != nil {
		return nil, err
	}
	if maxFeeRate != nil && fees.Fast.Cmp(maxFeeRate) > 0 {
		return nil, fmt.Errorf("%w: fast gas price %s exceeds %s", types.ErrFeeRateTooHigh, fees.Fast, maxFeeRate)
	}
	return fees.Fast, nil
}

// IsRouterApproved reports whether the current router may spend amount of asset from walletIndex.
// Gas assets need no approval.
func (d *Depositor) IsRouterApproved(ctx context.Context, asset Asset, amount *big.Int, walletIndex int) (bool, error) {
	if asset.Capability() != RouterDepositCapable {
		return true, nil
	}
	router, err := d.router(ctx)
	if err != nil {
		return false, err
	}
	owner, err := d.signer.Address(walletIndex)
	if err != nil {
		return false, err
	}
	return d.allowance.IsApproved(ctx, asset.Contract, amount, owner, router)
}

// ApproveRouter approves the current router to spend amount of asset. A nil amount approves MaxApproval.
func (d *Depositor) ApproveRouter(ctx context.Context, asset Asset, amount *big.Int, walletIndex int) (ecommon.Hash, error) {
	if asset.Capability() != RouterDepositCapable {
		return ecommon.Hash{}, fmt.Errorf("asset %s does not need approval", asset)
	}
	router, err := d.router(ctx)
	if err != nil {
		return ecommon.Hash{}, err
	}
	return d.allowance.Approve(ctx, asset.Contract, amount, router, walletIndex)
}

func (d *Depositor) router(ctx context.Context) (ecommon.Address, error) {
	router, err := d.directory.GetRouterAddress(ctx, d.chain)
	if err != nil {
		return ecommon.Address{}, err
	}
	if !ecommon.IsHexAddress(router) {
		return ecommon.Address{}, fmt.Errorf("%w: invalid router address %q", types.ErrRouterUnresolved, router)
	}
	return ecommon.HexToAddress(router), nil
}
