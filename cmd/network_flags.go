package cmd

import (
	"fmt"

	"github.com/crytic/abisync/config"
	"github.com/spf13/cobra"
)

// addNetworkFlags adds the various flags for the network command
func addNetworkFlags(cmd *cobra.Command) error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Config file
	cmd.Flags().String("config", "", ConfigFlagDescription)

	// RPC URL and chain id
	addRpcUrlFlag(cmd, defaultConfig)
	cmd.Flags().Uint64("chain-id", 0,
		fmt.Sprintf("chain id the dapp expects (unless a config file is provided, default is %d)", defaultConfig.Network.ChainId))
	return nil
}

// addRpcUrlFlag adds the --rpc-url flag to a command which talks to a node
func addRpcUrlFlag(cmd *cobra.Command, defaultConfig *config.ProjectConfig) {
	cmd.Flags().String("rpc-url", "",
		fmt.Sprintf("JSON-RPC endpoint of a node (unless a config file is provided, default is %q)", defaultConfig.Network.RpcUrl))
}

// updateProjectConfigWithNetworkFlags will update the given projectConfig with any CLI arguments that were provided
// to the network command
func updateProjectConfigWithNetworkFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update RPC URL
	if cmd.Flags().Changed("rpc-url") {
		projectConfig.Network.RpcUrl, err = cmd.Flags().GetString("rpc-url")
		if err != nil {
			return err
		}
	}

	// Update expected chain id
	if cmd.Flags().Changed("chain-id") {
		projectConfig.Network.ChainId, err = cmd.Flags().GetUint64("chain-id")
		if err != nil {
			return err
		}
	}
	return nil
}
