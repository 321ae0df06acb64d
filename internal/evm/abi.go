package evm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ecommon "github.com/ethereum/go-ethereum/common"
)

const erc20JSON = `[
	{"type":"function","name":"allowance","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"decimals","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint8"}]}
]`

// THORChain router v4
const routerJSON = `[
	{"type":"function","name":"depositWithExpiry","stateMutability":"payable",
	 "inputs":[
		{"name":"vault","type":"address"},
		{"name":"asset","type":"address"},
		{"name":"amount","type":"uint256"},
		{"name":"memo","type":"string"},
		{"name":"expiration","type":"uint256"}],
	 "outputs":[]}
]`

var (
	erc20ABI  = mustParseABI(erc20JSON)
	routerABI = mustParseABI(routerJSON)
)

// MaxApproval is 2^256-1, the conventional unlimited ERC-20 allowance.
var MaxApproval = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid abi: %v", err))
	}
	return parsed
}

// DepositCall holds the arguments of a router depositWithExpiry call.
type DepositCall struct {
	Vault  ecommon.Address
	Asset  ecommon.Address
	Amount *big.Int
	Memo   string
	Expiry *big.Int
}

// PackDepositWithExpiry encodes depositWithExpiry(vault, asset, amount, memo, expiry).
func PackDepositWithExpiry(c DepositCall) ([]byte, error) {
	if c.Amount == nil || c.Amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid deposit amount %v", c.Amount)
	}
	if c.Expiry == nil {
		return nil, fmt.Errorf("deposit expiry is not set")
	}
	data, err := routerABI.Pack("depositWithExpiry", c.Vault, c.Asset, c.Amount, c.Memo, c.Expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to pack depositWithExpiry: %w", err)
	}
	return data, nil
}

// UnpackDepositWithExpiry decodes call data produced by PackDepositWithExpiry.
func UnpackDepositWithExpiry(data []byte) (DepositCall, error) {
	method := routerABI.Methods["depositWithExpiry"]
	if len(data) < 4 || string(data[:4]) != string(method.ID) {
		return DepositCall{}, fmt.Errorf("not a depositWithExpiry call")
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return DepositCall{}, fmt.Errorf("failed to unpack depositWithExpiry: %w", err)
	}
	return DepositCall{
		Vault:  args[0].(ecommon.Address),
		Asset:  args[1].(ecommon.Address),
		Amount: args[2].(*big.Int),
		Memo:   args[3].(string),
		Expiry: args[4].(*big.Int),
	}, nil
}

func packAllowance(owner, spender ecommon.Address) ([]byte, error) {
	return erc20ABI.Pack("allowance", owner, spender)
}

func packApprove(spender ecommon.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

func packBalanceOf(account ecommon.Address) ([]byte, error) {
	return erc20ABI.Pack("balanceOf", account)
}

func packDecimals() ([]byte, error) {
	return erc20ABI.Pack("decimals")
}

// unpackUint256 decodes the single uint256 output of an ERC-20 view method.
func unpackUint256(method string, out []byte) (*big.Int, error) {
	vals, err := erc20ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	v, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type %T", method, vals[0])
	}
	return v, nil
}
