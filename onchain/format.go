package onchain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// FormatUnits formats an integer amount of a token's smallest unit as a decimal string with the given number of
// decimals, trimming trailing zeros (e.g. 1500000000000000000 with 18 decimals is "1.5").
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// FormatAddress shortens a hex address for display, keeping chars characters after the 0x prefix and chars
// characters at the end (e.g. 0x1234...5678 for chars = 4). Addresses too short to shorten are returned unchanged.
func FormatAddress(address string, chars int) string {
	if address == "" {
		return ""
	}
	if chars <= 0 || len(address) <= 2+2*chars {
		return address
	}
	return address[:2+chars] + "..." + address[len(address)-chars:]
}
