package utils

import (
	"encoding/hex"
	"strings"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
)

// HexStringToAddress converts a hex string (with or without the "0x" prefix) to a common.Address. Returns the parsed
// address, or an error if the string is not valid hex or does not encode exactly 20 bytes.
func HexStringToAddress(s string) (*common.Address, error) {
	// Remove the 0x prefix and decode the hex string into a byte array
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, errors.Wrapf(err, "malformed address '%s'", s)
	}
	if len(b) != common.AddressLength {
		return nil, errors.Errorf("malformed address '%s': expected %d bytes, got %d", s, common.AddressLength, len(b))
	}

	address := common.BytesToAddress(b)
	return &address, nil
}
