package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	ecommon "github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vultisig/deposit/internal/blockchair"
	"github.com/vultisig/deposit/internal/common"
	"github.com/vultisig/deposit/internal/evm"
	"github.com/vultisig/deposit/internal/graceful"
	"github.com/vultisig/deposit/internal/journal"
	"github.com/vultisig/deposit/internal/metrics"
	"github.com/vultisig/deposit/internal/thorchain"
	"github.com/vultisig/deposit/internal/types"
	"github.com/vultisig/deposit/internal/util"
	"github.com/vultisig/deposit/internal/utxo"
	"github.com/vultisig/deposit/internal/utxo/address"
)

var (
	mode       = flag.String("mode", "", "build-utxo, broadcast-utxo, deposit, approve, is-approved, balance, address, journal")
	chainFlag  = flag.String("chain", "", "chain name, e.g. Bitcoin or BTC")
	assetFlag  = flag.String("asset", "", "EVM asset in THORChain notation, e.g. ETH.USDC-0xA0b8...")
	tokenFlag  = flag.String("token", "", "EVM token contract, resolved against THORChain pools when -asset is empty")
	amountFlag = flag.String("amount", "", "amount in base units")
	memoFlag   = flag.String("memo", "", "THORChain memo")
	toFlag     = flag.String("to", "", "UTXO recipient address")
	fromFlag   = flag.String("from", "", "UTXO sender address")
	feeRate    = flag.String("fee-rate", "", "UTXO fee rate per byte, fetched from THORNode when empty")
	maxFeeRate = flag.String("max-fee-rate", "", "EVM gas price cap in wei")
	walletIdx  = flag.Int("wallet", 0, "signer wallet index")
	rawFlag    = flag.String("raw", "", "signed raw transaction hex")
	addrsFlag  = flag.String("addresses", "", "comma separated addresses for balance")
	pubKeyFlag = flag.String("pubkey", "", "compressed secp256k1 public key hex for address")
	force      = flag.Bool("force", false, "submit even when the journal has a matching entry")
	wait       = flag.Duration("wait", 0, "wait up to this long for an EVM transaction to be mined")
)

type app struct {
	cfg       config
	logger    *logrus.Logger
	network   common.Network
	thornode  *thorchain.Client
	journal   *journal.Journal
	evmChains *evm.Manager
}

var modes = map[string]func(context.Context, *app) error{
	"build-utxo":     buildUTXO,
	"broadcast-utxo": broadcastUTXO,
	"deposit":        deposit,
	"approve":        approve,
	"is-approved":    isApproved,
	"balance":        balance,
	"address":        deriveAddress,
	"journal":        listJournal,
}

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	cfg, err := newConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	logger.SetLevel(level)

	run, ok := modes[*mode]
	if !ok {
		logger.Fatalf("unknown mode %q", *mode)
	}

	network, err := common.ParseNetwork(cfg.Network)
	if err != nil {
		logger.Fatalf("failed to parse network: %v", err)
	}

	metrics.RegisterMetrics([]string{metrics.ServiceUTXO, metrics.ServiceEVM}, logger)
	var metricsServer *metrics.Server
	if cfg.MetricsPort != "" {
		metricsServer = metrics.StartMetricsServer(cfg.MetricsPort, logger)
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		logger.Fatalf("failed to open journal: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-graceful.MakeSigintChan()
		logger.Info("received shutdown signal")
		cancel()
	}()

	a := &app{
		cfg:       cfg,
		logger:    logger,
		network:   network,
		thornode:  thorchain.NewClient(cfg.Thornode.URL),
		journal:   j,
		evmChains: evm.NewManager(map[common.Chain]*evm.Network{}),
	}

	err = run(ctx, a)

	a.evmChains.Close()
	if er := j.Close(); er != nil {
		logger.Errorf("failed to close journal: %v", er)
	}
	if metricsServer != nil {
		stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		if er := metricsServer.Stop(stopCtx); er != nil {
			logger.Errorf("failed to stop metrics server: %v", er)
		}
		stop()
	}
	cancel()

	if err != nil {
		logger.Fatalf("%s failed: %v", *mode, err)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) utxoService(chain common.Chain) (*utxo.Service, error) {
	bc, err := blockchair.NewClient(a.cfg.Blockchair.URL, chain)
	if err != nil {
		return nil, err
	}
	return utxo.NewService(chain, a.network, bc, thorchain.NewFeeProvider(a.thornode, chain), bc, a.logger)
}

func (a *app) evmNetwork(ctx context.Context, chain common.Chain) (*evm.Network, error) {
	if !evm.IsThorchainSupported(chain) {
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedChain, chain)
	}
	if n, err := a.evmChains.Get(chain); err == nil {
		return n, nil
	}

	if len(a.cfg.SignerKeys) == 0 {
		return nil, errors.New("SIGNER_KEYS is not set")
	}
	signer, err := evm.NewKeySigner(a.cfg.SignerKeys...)
	if err != nil {
		return nil, err
	}
	url, err := a.cfg.Rpc.url(chain)
	if err != nil {
		return nil, err
	}
	n, err := evm.NewNetwork(ctx, chain, url, a.thornode, a.thornode, signer, a.cfg.Deposit, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s network: %w", chain, err)
	}
	a.evmChains = evm.NewManager(map[common.Chain]*evm.Network{chain: n})
	a.logger.Infof("initialized %s network with RPC: %s", chain, url)
	return n, nil
}

// evmAsset resolves -asset, or -chain with an optional -token through THORChain pools.
func (a *app) evmAsset(ctx context.Context) (evm.Asset, error) {
	if *assetFlag != "" {
		return evm.ParseAsset(*assetFlag)
	}
	chain, err := common.FromString(*chainFlag)
	if err != nil {
		return evm.Asset{}, err
	}
	if *tokenFlag == "" {
		return evm.NativeAsset(chain)
	}
	notation, err := a.thornode.ResolveAsset(ctx, chain, *tokenFlag)
	if err != nil {
		return evm.Asset{}, err
	}
	return evm.ParseAsset(notation)
}

func buildUTXO(ctx context.Context, a *app) error {
	chain, err := common.FromString(*chainFlag)
	if err != nil {
		return err
	}
	amount, err := util.ParseBaseUnits(*amountFlag)
	if err != nil {
		return err
	}
	value, err := util.Uint64(amount)
	if err != nil {
		return err
	}
	var rate uint64
	if *feeRate != "" {
		if rate, err = util.ParseFeeRate(*feeRate); err != nil {
			return err
		}
	}

	svc, err := a.utxoService(chain)
	if err != nil {
		return err
	}
	skeleton, err := svc.Build(ctx, utxo.Request{
		Recipient: *toFlag,
		Amount:    value,
		Memo:      *memoFlag,
		FeeRate:   utxo.FeeRate(rate),
		Sender:    *fromFlag,
	})
	if err != nil {
		return err
	}

	raw, err := skeleton.Serialize()
	if err != nil {
		return err
	}
	out := map[string]any{
		"chain":   chain.String(),
		"inputs":  len(skeleton.Inputs),
		"outputs": len(skeleton.Outputs),
		"fee":     skeleton.Fee,
		"raw":     hex.EncodeToString(raw),
	}
	if chain != common.Zcash {
		packet, err := skeleton.PSBT()
		if err != nil {
			return err
		}
		psbt, err := packet.B64Encode()
		if err != nil {
			return fmt.Errorf("failed to encode psbt: %w", err)
		}
		out["psbt"] = psbt
	}
	return printJSON(out)
}

func broadcastUTXO(ctx context.Context, a *app) error {
	chain, err := common.FromString(*chainFlag)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(strings.TrimSpace(*rawFlag))
	if err != nil {
		return fmt.Errorf("invalid raw transaction: %w", err)
	}

	key := journal.Key(chain.String(), "broadcast", hex.EncodeToString(raw))
	if err := a.guard(key); err != nil {
		return err
	}

	svc, err := a.utxoService(chain)
	if err != nil {
		return err
	}
	hash, err := svc.BroadcastRaw(ctx, raw)
	if err != nil {
		return err
	}
	a.record(journal.Entry{Key: key, Chain: chain.String(), Operation: types.OperationTransfer, TxHash: hash})
	return printJSON(map[string]string{"tx_hash": hash})
}

func deposit(ctx context.Context, a *app) error {
	asset, err := a.evmAsset(ctx)
	if err != nil {
		return err
	}
	amount, err := util.ParseBaseUnits(*amountFlag)
	if err != nil {
		return err
	}
	var capRate *big.Int
	if *maxFeeRate != "" {
		if capRate, err = util.ParseBaseUnits(*maxFeeRate); err != nil {
			return err
		}
	}

	contract := ""
	if asset.Capability() == evm.RouterDepositCapable {
		contract = asset.Contract.Hex()
	}
	if err := a.thornode.ValidateAssetPool(ctx, asset.Chain, contract); err != nil {
		return err
	}

	key := journal.Key(asset.Chain.String(), types.OperationDeposit, asset.String(), amount.String(), *memoFlag, fmt.Sprint(*walletIdx))
	if err := a.guard(key); err != nil {
		return err
	}

	n, err := a.evmNetwork(ctx, asset.Chain)
	if err != nil {
		return err
	}
	hash, err := n.Depositor.SendDeposit(ctx, evm.DepositRequest{
		Asset:       asset,
		Amount:      amount,
		Memo:        *memoFlag,
		WalletIndex: *walletIdx,
		MaxFeeRate:  capRate,
	})
	if err != nil {
		return err
	}
	a.record(journal.Entry{
		Key:       key,
		Chain:     asset.Chain.String(),
		Operation: types.OperationDeposit,
		Asset:     asset.String(),
		Amount:    amount.String(),
		Memo:      *memoFlag,
		TxHash:    hash.Hex(),
	})
	return a.report(ctx, n, hash)
}

func approve(ctx context.Context, a *app) error {
	asset, err := a.evmAsset(ctx)
	if err != nil {
		return err
	}
	var amount *big.Int
	if *amountFlag != "" {
		if amount, err = util.ParseBaseUnits(*amountFlag); err != nil {
			return err
		}
	}
	n, err := a.evmNetwork(ctx, asset.Chain)
	if err != nil {
		return err
	}
	entry := approveEntry(asset, amount, *walletIdx)
	if err := a.guard(entry.Key); err != nil {
		return err
	}

	hash, err := n.Depositor.ApproveRouter(ctx, asset, amount, *walletIdx)
	if err != nil {
		return err
	}
	entry.TxHash = hash.Hex()
	a.record(entry)
	return a.report(ctx, n, hash)
}

// approveEntry journals an allowance grant; a nil amount is the unlimited grant.
func approveEntry(asset evm.Asset, amount *big.Int, walletIndex int) journal.Entry {
	allowance := "max"
	if amount != nil {
		allowance = amount.String()
	}
	return journal.Entry{
		Key:       journal.Key(asset.Chain.String(), types.OperationApprove, asset.String(), allowance, fmt.Sprint(walletIndex)),
		Chain:     asset.Chain.String(),
		Operation: types.OperationApprove,
		Asset:     asset.String(),
		Amount:    allowance,
	}
}

func isApproved(ctx context.Context, a *app) error {
	asset, err := a.evmAsset(ctx)
	if err != nil {
		return err
	}
	amount, err := util.ParseBaseUnits(*amountFlag)
	if err != nil {
		return err
	}
	n, err := a.evmNetwork(ctx, asset.Chain)
	if err != nil {
		return err
	}
	ok, err := n.Depositor.IsRouterApproved(ctx, asset, amount, *walletIdx)
	if err != nil {
		return err
	}
	return printJSON(map[string]bool{"approved": ok})
}

// balance looks up every address concurrently; the lookups share nothing.
func balance(ctx context.Context, a *app) error {
	addrs := strings.Split(*addrsFlag, ",")
	if *addrsFlag == "" {
		return errors.New("no addresses")
	}

	var lookup func(ctx context.Context, addr string) (string, error)
	chain, chainErr := common.FromString(*chainFlag)
	if chainErr == nil && chain.IsUTXO() {
		svc, err := a.utxoService(chain)
		if err != nil {
			return err
		}
		decimals, err := util.GetNativeDecimals(chain)
		if err != nil {
			return err
		}
		lookup = func(ctx context.Context, addr string) (string, error) {
			v, err := svc.Balance(ctx, addr)
			if err != nil {
				return "", err
			}
			return util.FromBaseUnits(new(big.Int).SetUint64(v), decimals), nil
		}
	} else {
		asset, err := a.evmAsset(ctx)
		if err != nil {
			return err
		}
		n, err := a.evmNetwork(ctx, asset.Chain)
		if err != nil {
			return err
		}
		decimals, err := util.GetNativeDecimals(asset.Chain)
		if err != nil {
			return err
		}
		if asset.Capability() == evm.RouterDepositCapable {
			d, err := n.State.TokenDecimals(ctx, asset.Contract)
			if err != nil {
				return err
			}
			decimals = int(d)
		}
		lookup = func(ctx context.Context, addr string) (string, error) {
			if !ecommon.IsHexAddress(addr) {
				return "", fmt.Errorf("%w: %s", types.ErrInvalidAddress, addr)
			}
			v, err := n.State.Balance(ctx, asset, ecommon.HexToAddress(addr))
			if err != nil {
				return "", err
			}
			return util.FromBaseUnits(v, decimals), nil
		}
	}

	results := make([]string, len(addrs))
	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range addrs {
		i, addr := i, strings.TrimSpace(addr)
		g.Go(func() error {
			v, err := lookup(gctx, addr)
			if err != nil {
				return fmt.Errorf("%s: %w", addr, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := make(map[string]string, len(addrs))
	for i, addr := range addrs {
		out[strings.TrimSpace(addr)] = results[i]
	}
	return printJSON(out)
}

// report prints hash and, with -wait, its on-chain status.
func (a *app) report(ctx context.Context, n *evm.Network, hash ecommon.Hash) error {
	out := map[string]string{"tx_hash": hash.Hex()}
	if *wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, *wait)
		defer cancel()
		st, err := n.Status.WaitMined(waitCtx, hash)
		if err != nil {
			return fmt.Errorf("failed to wait for %s: %w", hash.Hex(), err)
		}
		out["status"] = string(st)
	}
	return printJSON(out)
}

// deriveAddress prints the UTXO sender address a compressed public key spends from.
func deriveAddress(_ context.Context, a *app) error {
	chain, err := common.FromString(*chainFlag)
	if err != nil {
		return err
	}
	pubKey, err := hex.DecodeString(strings.TrimSpace(*pubKeyFlag))
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	addr, err := address.FromPubKey(chain, a.network, pubKey)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"chain": chain.String(), "address": addr.String()})
}

func listJournal(_ context.Context, a *app) error {
	entries, err := a.journal.List()
	if err != nil {
		return err
	}
	return printJSON(entries)
}

func (a *app) guard(key string) error {
	if *force {
		return nil
	}
	e, ok, err := a.journal.Get(key)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: %s at %s, use -force to resubmit", journal.ErrAlreadySubmitted, e.TxHash, e.SubmittedAt.Format(time.RFC3339))
	}
	return nil
}

func (a *app) record(e journal.Entry) {
	if *force {
		_ = a.journal.Forget(e.Key)
	}
	if err := a.journal.Record(e); err != nil {
		a.logger.WithError(err).WithField("tx_hash", e.TxHash).Warn("failed to record submission")
	}
}
