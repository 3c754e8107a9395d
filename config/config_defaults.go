package config

import (
	"github.com/crytic/abisync/artifacts"
	"github.com/rs/zerolog"
)

// GetDefaultProjectConfig obtains the default configuration for a dapp project laid out as a Foundry contract
// workspace in foundry/ and a web front end in apps/web/.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Sync: SyncConfig{
			SourceDirectory:     "foundry/out",
			TargetDirectory:     "apps/web/lib/contracts",
			Strategy:            artifacts.DiscoveryStrategyWalk,
			MissingSourcePolicy: artifacts.MissingSourcePolicyAbort,
			CacheDirectory:      ".abisync",
			BuildCommand:        []string{"forge", "build"},
			BuildDirectory:      "foundry",
		},
		Network: NetworkConfig{
			Name:    "Localhost 8545",
			RpcUrl:  "http://127.0.0.1:8545",
			ChainId: 31337,
			Symbol:  "ETH",
			Timeout: 10,
		},
		Token: TokenConfig{
			Artifact: "SimpleToken",
			Symbol:   "SIM",
			Decimals: 18,
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			NoColor:      false,
			LogDirectory: "",
		},
	}
}
