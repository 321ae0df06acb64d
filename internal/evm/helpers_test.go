package evm

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ecommon "github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vultisig/deposit/internal/common"
)

var (
	testVault  = ecommon.HexToAddress("0x1111111111111111111111111111111111111111")
	testRouter = ecommon.HexToAddress("0xD37BbE5744D730a1d98d8DC97c42F0Ca46aD7146")
	testUSDC   = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

// mockReader is an in-memory chain. An approve transaction sent through it updates the allowance.
type mockReader struct {
	chainID     *big.Int
	headerTime  uint64
	gasPrice    *big.Int
	nonce       uint64
	estimate    uint64
	allowance   *big.Int
	balance     *big.Int
	tokenBal    *big.Int
	decimals    uint8
	sendErr     error
	gasPriceErr error

	sent        []*etypes.Transaction
	headerCalls int
	callCalls   int
}

func newMockReader() *mockReader {
	return &mockReader{
		chainID:    big.NewInt(1),
		headerTime: 1_700_000_000,
		gasPrice:   big.NewInt(7_000_000_000),
		estimate:   21_000,
		allowance:  big.NewInt(0),
		balance:    big.NewInt(0),
		tokenBal:   big.NewInt(0),
		decimals:   6,
	}
}

func (m *mockReader) ChainID(context.Context) (*big.Int, error) { return m.chainID, nil }

func (m *mockReader) HeaderByNumber(context.Context, *big.Int) (*etypes.Header, error) {
	m.headerCalls++
	return &etypes.Header{Time: m.headerTime}, nil
}

func (m *mockReader) SuggestGasPrice(context.Context) (*big.Int, error) {
	if m.gasPriceErr != nil {
		return nil, m.gasPriceErr
	}
	return m.gasPrice, nil
}

func (m *mockReader) PendingNonceAt(context.Context, ecommon.Address) (uint64, error) {
	return m.nonce, nil
}

func (m *mockReader) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	m.callCalls++
	switch {
	case bytes.HasPrefix(msg.Data, erc20ABI.Methods["allowance"].ID):
		return erc20ABI.Methods["allowance"].Outputs.Pack(m.allowance)
	case bytes.HasPrefix(msg.Data, erc20ABI.Methods["balanceOf"].ID):
		return erc20ABI.Methods["balanceOf"].Outputs.Pack(m.tokenBal)
	case bytes.HasPrefix(msg.Data, erc20ABI.Methods["decimals"].ID):
		return erc20ABI.Methods["decimals"].Outputs.Pack(m.decimals)
	}
	return nil, errors.New("execution reverted")
}

func (m *mockReader) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return m.estimate, nil
}

func (m *mockReader) SendTransaction(_ context.Context, tx *etypes.Transaction) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, tx)
	m.nonce++

	approve := erc20ABI.Methods["approve"]
	if bytes.HasPrefix(tx.Data(), approve.ID) {
		args, err := approve.Inputs.Unpack(tx.Data()[4:])
		if err != nil {
			return err
		}
		m.allowance = args[1].(*big.Int)
	}
	return nil
}

func (m *mockReader) BalanceAt(context.Context, ecommon.Address, *big.Int) (*big.Int, error) {
	return m.balance, nil
}

type mockDirectory struct {
	info VaultInfo
	err  error
}

func (d *mockDirectory) GetInboundVaultInfo(context.Context, common.Chain) (VaultInfo, error) {
	return d.info, d.err
}

func (d *mockDirectory) GetRouterAddress(context.Context, common.Chain) (string, error) {
	return d.info.Router, d.err
}

type mockGas struct {
	rate uint64
	err  error
}

func (g mockGas) GasRate(context.Context, common.Chain) (uint64, error) { return g.rate, g.err }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func testSigner(t *testing.T) *KeySigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return NewKeySignerFromKeys(key)
}

// rejectingSigner knows its addresses but refuses to sign.
type rejectingSigner struct {
	*KeySigner
	err error
}

func (s rejectingSigner) SignTx(context.Context, int, *etypes.Transaction, *big.Int) (*etypes.Transaction, error) {
	return nil, s.err
}

func newTestDepositor(t *testing.T, reader *mockReader, dir *mockDirectory, gas GasRateSource) *Depositor {
	t.Helper()
	d, err := NewDepositor(common.Ethereum, reader.chainID, reader, dir, gas, testSigner(t), DefaultConfig(), testLogger())
	require.NoError(t, err)
	return d
}

func defaultDirectory() *mockDirectory {
	return &mockDirectory{info: VaultInfo{Address: testVault.Hex(), Router: testRouter.Hex()}}
}

func usdc(t *testing.T) Asset {
	t.Helper()
	a, err := TokenAsset(common.Ethereum, "USDC", testUSDC)
	require.NoError(t, err)
	return a
}

func eth(t *testing.T) Asset {
	t.Helper()
	a, err := NativeAsset(common.Ethereum)
	require.NoError(t, err)
	return a
}
