package onchain

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// NetworkStatus describes the network a client is connected to relative to the network the dapp expects.
type NetworkStatus struct {
	// ChainID is the chain id reported by the node.
	ChainID uint64

	// ExpectedChainID is the chain id the dapp is deployed to.
	ExpectedChainID uint64

	// WrongNetwork indicates the node is not on the expected chain.
	WrongNetwork bool
}

// SwitchNetworkMessage returns the instruction shown to a user connected to the wrong network.
func (s *NetworkStatus) SwitchNetworkMessage() string {
	return fmt.Sprintf("Wrong Network: switch to chain ID %d in your wallet", s.ExpectedChainID)
}

// CheckNetwork reads the chain id from reader and compares it with the expected chain id.
func CheckNetwork(ctx context.Context, reader ChainIDReader, expectedChainID uint64) (*NetworkStatus, error) {
	chainID, err := reader.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read the chain id")
	}
	if chainID == nil || !chainID.IsUint64() {
		return nil, errors.Errorf("node reported an invalid chain id '%v'", chainID)
	}

	return &NetworkStatus{
		ChainID:         chainID.Uint64(),
		ExpectedChainID: expectedChainID,
		WrongNetwork:    chainID.Uint64() != expectedChainID,
	}, nil
}
