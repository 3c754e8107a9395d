package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/abisync/utils"
	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/pkg/errors"
)

// ArtifactDescriptor is a parsed contract interface descriptor produced by the contract build tool. Only the fields
// used by this tool are kept; the file itself is always synced verbatim.
type ArtifactDescriptor struct {
	// Name is the contract name, taken from the descriptor file name.
	Name string

	// Abi describes the contract's application binary interface.
	Abi abi.ABI

	// InitBytecode is the deployment bytecode, or nil if absent or unlinked.
	InitBytecode []byte

	// RuntimeBytecode is the deployed bytecode, or nil if absent or unlinked.
	RuntimeBytecode []byte

	// MethodIdentifiers maps function signatures to their hex selectors, when the build tool provides them.
	MethodIdentifiers map[string]string

	// compilerVersion is the compiler version string from the descriptor's metadata, if present.
	compilerVersion string
}

// artifactJSON describes the subset of a Foundry or Hardhat artifact that is parsed.
type artifactJSON struct {
	Abi               json.RawMessage   `json:"abi"`
	Bytecode          bytecodeJSON      `json:"bytecode"`
	DeployedBytecode  bytecodeJSON      `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
	Metadata          json.RawMessage   `json:"metadata"`
	RawMetadata       string            `json:"rawMetadata"`
}

// compilerMetadataJSON describes the compiler section of the Solidity metadata document.
type compilerMetadataJSON struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
}

// bytecodeJSON accepts both Foundry's {"object": "0x.."} bytecode objects and Hardhat's plain hex strings.
type bytecodeJSON struct {
	Object string
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *bytecodeJSON) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &b.Object); err == nil {
		return nil
	}
	var object struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	b.Object = object.Object
	return nil
}

// ReadArtifactDescriptor reads and parses the descriptor at the given path. The contract name is the file name
// without its extension.
func ReadArtifactDescriptor(path string) (*ArtifactDescriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	descriptor, err := ParseArtifactDescriptor(utils.GetFileNameWithoutExtension(path), b)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse artifact '%s'", filepath.Base(path))
	}
	return descriptor, nil
}

// ReadArtifactDescriptors reads every descriptor file directly inside the given directory, in file name order.
// Files which could not be parsed are returned in a map from file name to the error, and do not prevent the others
// from being read. An error is returned only if the directory itself could not be read.
func ReadArtifactDescriptors(directory string) ([]*ArtifactDescriptor, map[string]error, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	descriptors := make([]*ArtifactDescriptor, 0, len(entries))
	failures := make(map[string]error)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		descriptor, err := ReadArtifactDescriptor(filepath.Join(directory, entry.Name()))
		if err != nil {
			failures[entry.Name()] = err
			continue
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, failures, nil
}

// ParseArtifactDescriptor parses descriptor JSON for the named contract. The document must contain an abi field.
func ParseArtifactDescriptor(name string, data []byte) (*ArtifactDescriptor, error) {
	var parsed artifactJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(parsed.Abi) == 0 || bytes.Equal(parsed.Abi, []byte("null")) {
		return nil, errors.New("artifact has no abi field")
	}

	contractAbi, err := abi.JSON(bytes.NewReader(parsed.Abi))
	if err != nil {
		return nil, errors.Wrap(err, "invalid abi")
	}

	return &ArtifactDescriptor{
		Name:              name,
		Abi:               contractAbi,
		InitBytecode:      decodeBytecode(parsed.Bytecode.Object),
		RuntimeBytecode:   decodeBytecode(parsed.DeployedBytecode.Object),
		MethodIdentifiers: parsed.MethodIdentifiers,
		compilerVersion:   parseCompilerVersion(parsed.Metadata, parsed.RawMetadata),
	}, nil
}

// CompilerVersion returns the version of the compiler which produced the artifact. The descriptor's metadata is
// preferred; otherwise the version embedded in the runtime bytecode's CBOR metadata is used.
func (d *ArtifactDescriptor) CompilerVersion() (*semver.Version, error) {
	if d.compilerVersion != "" {
		version, err := semver.NewVersion(d.compilerVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed compiler version '%s'", d.compilerVersion)
		}
		return version, nil
	}

	if metadata := ExtractContractMetadata(d.RuntimeBytecode); metadata != nil {
		if version := metadata.ExtractSolcVersion(); version != nil {
			return version, nil
		}
	}
	return nil, errors.Errorf("artifact '%s' does not record a compiler version", d.Name)
}

// HasMethod returns a boolean indicating whether the ABI declares a method with the given name.
func (d *ArtifactDescriptor) HasMethod(name string) bool {
	_, ok := d.Abi.Methods[name]
	return ok
}

// decodeBytecode decodes hex bytecode with an optional 0x prefix. Empty or unlinked bytecode (containing library
// placeholders) decodes to nil.
func decodeBytecode(object string) []byte {
	object = strings.TrimPrefix(object, "0x")
	if object == "" {
		return nil
	}
	b, err := hex.DecodeString(object)
	if err != nil {
		return nil
	}
	return b
}

// parseCompilerVersion reads metadata.compiler.version, where metadata is either an object or a JSON-encoded string,
// falling back to rawMetadata.
func parseCompilerVersion(metadata json.RawMessage, rawMetadata string) string {
	candidates := make([][]byte, 0, 2)
	if len(metadata) > 0 {
		var encoded string
		if err := json.Unmarshal(metadata, &encoded); err == nil {
			candidates = append(candidates, []byte(encoded))
		} else {
			candidates = append(candidates, metadata)
		}
	}
	if rawMetadata != "" {
		candidates = append(candidates, []byte(rawMetadata))
	}

	for _, candidate := range candidates {
		var compilerMetadata compilerMetadataJSON
		if err := json.Unmarshal(candidate, &compilerMetadata); err == nil && compilerMetadata.Compiler.Version != "" {
			return compilerMetadata.Compiler.Version
		}
	}
	return ""
}
