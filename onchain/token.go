package onchain

import (
	"context"
	"math/big"

	"github.com/crytic/abisync/logging"
	ethereum "github.com/crytic/medusa-geth"
	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
)

// ContractCaller describes a client which can execute read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// TokenBalance describes an account's balance of an ERC20 token.
type TokenBalance struct {
	// Token is the address of the token contract.
	Token common.Address

	// Account is the address whose balance was read.
	Account common.Address

	// Balance is the raw balance in the token's smallest unit.
	Balance *big.Int

	// Symbol is the token symbol, read from the contract when possible.
	Symbol string

	// Decimals is the number of decimals of the token, read from the contract when possible.
	Decimals uint8
}

// Formatted returns the balance in whole token units followed by the symbol, e.g. "1.5 SIM".
func (b *TokenBalance) Formatted() string {
	formatted := FormatUnits(b.Balance, b.Decimals)
	if b.Symbol == "" {
		return formatted
	}
	return formatted + " " + b.Symbol
}

// ReadTokenBalance reads the balance of account on the token contract using the given contract ABI. The symbol and
// decimals are read from the contract if its ABI declares symbol() and decimals(); otherwise, or if those calls fail,
// the provided fallbacks are used.
func ReadTokenBalance(
	ctx context.Context,
	caller ContractCaller,
	contractAbi abi.ABI,
	token common.Address,
	account common.Address,
	fallbackSymbol string,
	fallbackDecimals uint8,
) (*TokenBalance, error) {
	if _, ok := contractAbi.Methods["balanceOf"]; !ok {
		return nil, errors.New("contract ABI does not declare balanceOf")
	}

	logger := logging.GlobalLogger.NewSubLogger(logging.SERVICE_KEY, logging.ONCHAIN_SERVICE)

	results, err := callMethod(ctx, caller, contractAbi, token, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	balance, ok := results[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("balanceOf returned %T, expected a uint256", results[0])
	}

	tokenBalance := &TokenBalance{
		Token:    token,
		Account:  account,
		Balance:  balance,
		Symbol:   fallbackSymbol,
		Decimals: fallbackDecimals,
	}

	if _, ok := contractAbi.Methods["symbol"]; ok {
		if results, err := callMethod(ctx, caller, contractAbi, token, "symbol"); err != nil {
			logger.Debug("Failed to read the token symbol, using ", fallbackSymbol, err)
		} else if symbol, ok := results[0].(string); ok {
			tokenBalance.Symbol = symbol
		}
	}
	if _, ok := contractAbi.Methods["decimals"]; ok {
		if results, err := callMethod(ctx, caller, contractAbi, token, "decimals"); err != nil {
			logger.Debug("Failed to read the token decimals, using ", fallbackDecimals, err)
		} else if decimals, ok := results[0].(uint8); ok {
			tokenBalance.Decimals = decimals
		}
	}

	return tokenBalance, nil
}

// callMethod packs a call to the named method, executes it against the latest block and unpacks its outputs.
// At least one output value is guaranteed on success.
func callMethod(ctx context.Context, caller ContractCaller, contractAbi abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	data, err := contractAbi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s call", method)
	}

	output, err := caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		if reason := DecodeRevertReason(&contractAbi, RevertData(err)); reason != "" {
			return nil, errors.Wrapf(err, "%s call failed: %s", method, reason)
		}
		return nil, errors.Wrapf(err, "%s call failed", method)
	}

	results, err := contractAbi.Unpack(method, output)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s result", method)
	}
	if len(results) == 0 {
		return nil, errors.Errorf("%s returned no values", method)
	}
	return results, nil
}
