package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Masterminds/semver"
	"github.com/fxamacker/cbor"
)

// ContractMetadata is a CBOR-encoded structure describing contract information which is embedded within smart contract
// bytecode by the Solidity compiler (unless explicitly directed not to).
// Reference: https://docs.soliditylang.org/en/v0.8.20/metadata.html
type ContractMetadata map[string]any

// metadataHashPrefixes defines patterns to use in search for CBOR-encoded contract metadata appended to the end of
// bytecode, for bytecode where the trailing length does not point at a valid CBOR map.
var metadataHashPrefixes = [][]byte{
	{0xa1, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a1 65 "bzzr0" 0x58 0x20 (solc <= 0.5.8)
	{0xa2, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a2 65 "bzzr0" 0x58 0x20 (solc >= 0.5.9)
	{0xa2, 0x65, 98, 122, 122, 114, 49, 0x58, 0x20},  // a2 65 "bzzr1" 0x58 0x20 (solc >= 0.5.11)
	{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a2 64 "ipfs" 0x58 0x22 (solc >= 0.6.0)
}

// byteCodeHashMetadataKeys defines the keys in the CBOR-encoded ContractMetadata which contain bytecode hashes.
var byteCodeHashMetadataKeys = [...]string{
	"bzzr0",
	"bzzr1",
	"ipfs",
}

// ExtractContractMetadata extracts contract metadata from provided bytecode and returns it. If contract metadata
// could not be extracted, nil is returned.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	// The compiler appends the CBOR map followed by its length as a big-endian uint16.
	if len(bytecode) > 2 {
		metadataLength := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
		metadataOffset := len(bytecode) - 2 - metadataLength
		if metadataLength > 0 && metadataOffset >= 0 {
			var metadata ContractMetadata
			if err := cbor.Unmarshal(bytecode[metadataOffset:len(bytecode)-2], &metadata); err == nil {
				return &metadata
			}
		}
	}

	// Otherwise, try matching each known metadata hash prefix.
	for _, metadataHashPrefix := range metadataHashPrefixes {
		metadataOffset := bytes.LastIndex(bytecode, metadataHashPrefix)
		if metadataOffset != -1 {
			var metadata ContractMetadata
			if err := cbor.Unmarshal(bytecode[metadataOffset:], &metadata); err != nil {
				continue
			}
			return &metadata
		}
	}
	return nil
}

// ExtractBytecodeHash extracts the bytecode hash from given contract metadata and returns the bytes representing the
// hash. If it could not be detected or extracted, nil is returned.
func (m ContractMetadata) ExtractBytecodeHash() []byte {
	for _, possibleMetadataKey := range byteCodeHashMetadataKeys {
		if bytecodeHashData, keyExists := m[possibleMetadataKey]; keyExists {
			if bytecodeHash, ok := bytecodeHashData.([]byte); ok {
				return bytecodeHash
			}
		}
	}
	return nil
}

// ExtractSolcVersion returns the compiler version recorded under the "solc" key, or nil if there is none. Release
// builds store three version bytes; pre-release builds store the full version string.
func (m ContractMetadata) ExtractSolcVersion() *semver.Version {
	switch solc := m["solc"].(type) {
	case []byte:
		if len(solc) != 3 {
			return nil
		}
		version, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", solc[0], solc[1], solc[2]))
		if err != nil {
			return nil
		}
		return version
	case string:
		version, err := semver.NewVersion(solc)
		if err != nil {
			return nil
		}
		return version
	default:
		return nil
	}
}
