package onchain

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	ethereum "github.com/crytic/medusa-geth"
	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenAbiJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

const balanceOnlyAbiJSON = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	testToken   = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testAccount = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

// fakeChainIDReader returns a fixed chain id or error.
type fakeChainIDReader struct {
	chainID *big.Int
	err     error
}

func (f *fakeChainIDReader) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainID, f.err
}

// fakeContractCaller answers calls by method name with pre-packed ABI outputs. Methods without a result fail.
type fakeContractCaller struct {
	abi     abi.ABI
	results map[string][]any
	calls   []ethereum.CallMsg
}

func (f *fakeContractCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls = append(f.calls, call)
	method, err := f.abi.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	result, ok := f.results[method.Name]
	if !ok {
		return nil, errors.Errorf("execution reverted")
	}
	return method.Outputs.Pack(result...)
}

func mustParseAbi(t *testing.T, definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	require.NoError(t, err)
	return parsed
}

// TestCheckNetwork checks matching and mismatching chain ids and read failures.
func TestCheckNetwork(t *testing.T) {
	status, err := CheckNetwork(context.Background(), &fakeChainIDReader{chainID: big.NewInt(31337)}, 31337)
	require.NoError(t, err)
	assert.False(t, status.WrongNetwork)
	assert.EqualValues(t, 31337, status.ChainID)

	status, err = CheckNetwork(context.Background(), &fakeChainIDReader{chainID: big.NewInt(1)}, 31337)
	require.NoError(t, err)
	assert.True(t, status.WrongNetwork)
	assert.EqualValues(t, 1, status.ChainID)
	assert.EqualValues(t, "Wrong Network: switch to chain ID 31337 in your wallet", status.SwitchNetworkMessage())

	_, err = CheckNetwork(context.Background(), &fakeChainIDReader{err: errors.New("connection refused")}, 31337)
	assert.ErrorContains(t, err, "connection refused")

	_, err = CheckNetwork(context.Background(), &fakeChainIDReader{}, 31337)
	assert.Error(t, err)
}

// TestReadTokenBalance checks that balance, symbol and decimals are read from the token contract.
func TestReadTokenBalance(t *testing.T) {
	tokenAbi := mustParseAbi(t, tokenAbiJSON)
	raw, ok := new(big.Int).SetString("1500000000000000000000", 10)
	require.True(t, ok)

	caller := &fakeContractCaller{
		abi: tokenAbi,
		results: map[string][]any{
			"balanceOf": {raw},
			"symbol":    {"TKN"},
			"decimals":  {uint8(18)},
		},
	}
	balance, err := ReadTokenBalance(context.Background(), caller, tokenAbi, testToken, testAccount, "SIM", 6)
	require.NoError(t, err)
	assert.EqualValues(t, 0, balance.Balance.Cmp(raw))
	assert.EqualValues(t, "TKN", balance.Symbol)
	assert.EqualValues(t, 18, balance.Decimals)
	assert.EqualValues(t, "1500 TKN", balance.Formatted())

	// Every call targets the token and the balance call encodes the account.
	require.Len(t, caller.calls, 3)
	for _, call := range caller.calls {
		require.NotNil(t, call.To)
		assert.EqualValues(t, testToken, *call.To)
	}
	assert.True(t, bytes.HasSuffix(caller.calls[0].Data, testAccount.Bytes()))
}

// TestReadTokenBalanceFallbacks checks that the configured symbol and decimals are used when the contract does not
// provide them.
func TestReadTokenBalanceFallbacks(t *testing.T) {
	// symbol() and decimals() are declared but revert.
	tokenAbi := mustParseAbi(t, tokenAbiJSON)
	caller := &fakeContractCaller{abi: tokenAbi, results: map[string][]any{"balanceOf": {big.NewInt(2500)}}}
	balance, err := ReadTokenBalance(context.Background(), caller, tokenAbi, testToken, testAccount, "SIM", 3)
	require.NoError(t, err)
	assert.EqualValues(t, "2.5 SIM", balance.Formatted())

	// symbol() and decimals() are not declared at all.
	balanceOnlyAbi := mustParseAbi(t, balanceOnlyAbiJSON)
	caller = &fakeContractCaller{abi: balanceOnlyAbi, results: map[string][]any{"balanceOf": {big.NewInt(0)}}}
	balance, err = ReadTokenBalance(context.Background(), caller, balanceOnlyAbi, testToken, testAccount, "SIM", 18)
	require.NoError(t, err)
	assert.EqualValues(t, "0 SIM", balance.Formatted())
	assert.Len(t, caller.calls, 1)
}

// TestReadTokenBalanceErrors checks ABIs without balanceOf and failing balance calls.
func TestReadTokenBalanceErrors(t *testing.T) {
	emptyAbi := mustParseAbi(t, `[]`)
	_, err := ReadTokenBalance(context.Background(), &fakeContractCaller{abi: emptyAbi}, emptyAbi, testToken, testAccount, "SIM", 18)
	assert.Error(t, err)

	tokenAbi := mustParseAbi(t, tokenAbiJSON)
	_, err = ReadTokenBalance(context.Background(), &fakeContractCaller{abi: tokenAbi}, tokenAbi, testToken, testAccount, "SIM", 18)
	assert.ErrorContains(t, err, "balanceOf call failed")
}

// TestFormatUnits checks conversion from a token's smallest unit.
func TestFormatUnits(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	tests := []struct {
		value    *big.Int
		decimals uint8
		expected string
	}{
		{oneEther, 18, "1"},
		{big.NewInt(1500000000000000000), 18, "1.5"},
		{big.NewInt(1), 18, "0.000000000000000001"},
		{big.NewInt(0), 18, "0"},
		{big.NewInt(123456), 0, "123456"},
		{big.NewInt(123456), 2, "1234.56"},
		{big.NewInt(-250), 2, "-2.5"},
		{nil, 18, "0"},
	}
	for _, test := range tests {
		assert.EqualValues(t, test.expected, FormatUnits(test.value, test.decimals))
	}
}

// TestFormatAddress checks address shortening.
func TestFormatAddress(t *testing.T) {
	assert.EqualValues(t, "0xf39F...2266", FormatAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", 4))
	assert.EqualValues(t, "0xf39Fd6...b92266", FormatAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", 6))
	assert.EqualValues(t, "", FormatAddress("", 4))
	assert.EqualValues(t, "0x1234", FormatAddress("0x1234", 4))
	assert.EqualValues(t, "0x12345678", FormatAddress("0x12345678", 4))
}

// TestDialRequiresURL checks that an empty RPC URL is rejected before dialing.
func TestDialRequiresURL(t *testing.T) {
	_, err := Dial(context.Background(), "")
	assert.Error(t, err)
}
