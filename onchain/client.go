package onchain

import (
	"context"
	"math/big"

	"github.com/crytic/medusa-geth/ethclient"
	"github.com/pkg/errors"
)

// ChainIDReader describes a client which can report the chain id of the network it is connected to.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to the node at the given RPC URL. The returned client must be closed by the caller.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		return nil, errors.New("no RPC URL was provided")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", rpcURL)
	}
	return client, nil
}
