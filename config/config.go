package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/crytic/abisync/artifacts"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ProjectConfig describes the configuration of a dapp project: where its contract artifacts are built and synced,
// and which network and token the on-chain commands talk to.
type ProjectConfig struct {
	// Sync describes the configuration used to sync contract artifacts into the front end.
	Sync SyncConfig `json:"sync"`

	// Network describes the network the dapp is deployed to.
	Network NetworkConfig `json:"network"`

	// Token describes the dapp's token contract.
	Token TokenConfig `json:"token"`

	// Logging describes the configuration used for logging
	Logging LoggingConfig `json:"logging"`

	// baseDirectory is the directory relative paths are resolved against. It is the directory containing the
	// configuration file, or the working directory if the configuration was not read from a file.
	baseDirectory string
}

// SyncConfig describes the configuration options used by artifacts.Syncer.
type SyncConfig struct {
	// SourceDirectory describes the artifact directory produced by the contract build tool.
	SourceDirectory string `json:"sourceDirectory"`

	// TargetDirectory describes the flat front end directory artifacts are copied into.
	TargetDirectory string `json:"targetDirectory"`

	// Strategy describes how artifacts are discovered beneath SourceDirectory ("walk" or "direct").
	Strategy artifacts.DiscoveryStrategy `json:"strategy"`

	// MissingSourcePolicy describes what a sync does when SourceDirectory does not exist ("abort" or "skip").
	MissingSourcePolicy artifacts.MissingSourcePolicy `json:"missingSourcePolicy"`

	// CacheDirectory describes where the hash of the last synced artifact set is kept. If empty, no hash is kept.
	CacheDirectory string `json:"cacheDirectory"`

	// BuildCommand describes the command (and its arguments) that builds the contracts when a sync is run with
	// --build.
	BuildCommand []string `json:"buildCommand"`

	// BuildDirectory describes the working directory of BuildCommand.
	BuildDirectory string `json:"buildDirectory"`
}

// NetworkConfig describes the network the dapp expects its users' wallets to be connected to.
type NetworkConfig struct {
	// Name describes the human-readable network name.
	Name string `json:"name"`

	// RpcUrl describes the JSON-RPC endpoint of a node on the network.
	RpcUrl string `json:"rpcUrl"`

	// ChainId describes the expected chain id.
	ChainId uint64 `json:"chainId"`

	// Symbol describes the symbol of the network's native currency.
	Symbol string `json:"symbol"`

	// Timeout describes the number of seconds to wait for RPC responses.
	Timeout int `json:"timeout"`
}

// TokenConfig describes the dapp's token contract.
type TokenConfig struct {
	// Artifact describes the name of the synced artifact whose ABI is used to call the token, without extension.
	Artifact string `json:"artifact"`

	// Symbol describes the token symbol used when the contract does not provide one.
	Symbol string `json:"symbol"`

	// Decimals describes the token decimals used when the contract does not provide them.
	Decimals uint8 `json:"decimals"`
}

// LoggingConfig describes the configuration options used for logging
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// NoColor describes whether console output should be uncolored.
	NoColor bool `json:"noColor"`

	// LogDirectory describes the directory where structured log _files_ will be outputted. If the string is empty, then
	// no log files are kept
	LogDirectory string `json:"logDirectory"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields missing from the
// file keep their default values, and relative paths resolve against the file's directory.
// Returns the ProjectConfig if it succeeds, or an error if one occurs.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Parse the project configuration over the defaults
	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse the configuration file '%s'", path)
	}

	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	projectConfig.baseDirectory = filepath.Dir(absolutePath)
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
// Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	// Serialize the configuration
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}

	// Save it to the provided output path and return the result
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// BaseDirectory returns the directory relative paths resolve against. An empty value means the working directory.
func (p *ProjectConfig) BaseDirectory() string {
	return p.baseDirectory
}

// SetBaseDirectory sets the directory relative paths resolve against.
func (p *ProjectConfig) SetBaseDirectory(directory string) {
	p.baseDirectory = directory
}

// ResolvePath returns path unchanged if it is empty or absolute, otherwise joined onto the base directory.
func (p *ProjectConfig) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || p.baseDirectory == "" {
		return path
	}
	return filepath.Join(p.baseDirectory, path)
}

// SyncOptions returns the artifacts.SyncOptions described by the sync configuration.
func (s *SyncConfig) SyncOptions() artifacts.SyncOptions {
	return artifacts.SyncOptions{
		Strategy:            s.Strategy,
		MissingSourcePolicy: s.MissingSourcePolicy,
	}
}

// TimeoutDuration returns the RPC timeout as a time.Duration.
func (n *NetworkConfig) TimeoutDuration() time.Duration {
	return time.Duration(n.Timeout) * time.Second
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns an error if one occurs.
func (p *ProjectConfig) Validate() error {
	// Verify the sync directories are provided and do not overlap
	if p.Sync.SourceDirectory == "" {
		return errors.Errorf("sync source directory must be provided")
	}
	if p.Sync.TargetDirectory == "" {
		return errors.Errorf("sync target directory must be provided")
	}
	if err := artifacts.ValidateDirectories(p.ResolvePath(p.Sync.SourceDirectory), p.ResolvePath(p.Sync.TargetDirectory)); err != nil {
		return err
	}

	// Verify the sync options are supported
	if err := p.Sync.SyncOptions().Validate(); err != nil {
		return err
	}

	// Verify the network settings
	if p.Network.ChainId == 0 {
		return errors.Errorf("network chain id must be a positive number")
	}
	if p.Network.Timeout <= 0 {
		return errors.Errorf("network timeout must be a positive number of seconds")
	}

	// Verify the token settings
	if p.Token.Artifact == "" {
		return errors.Errorf("token artifact name must be provided")
	}

	// Verify the log level is one zerolog knows
	if p.Logging.Level < zerolog.TraceLevel || p.Logging.Level > zerolog.Disabled {
		return errors.Errorf("unsupported log level '%d'", p.Logging.Level)
	}
	return nil
}
