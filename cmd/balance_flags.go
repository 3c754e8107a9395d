package cmd

import (
	"fmt"

	"github.com/crytic/abisync/config"
	"github.com/spf13/cobra"
)

// addBalanceFlags adds the various flags for the balance command
func addBalanceFlags(cmd *cobra.Command) error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	cmd.Flags().SortFlags = false

	// Token and account addresses
	cmd.Flags().String("token", "", "address of the deployed token contract")
	cmd.Flags().String("account", "", "address of the account whose balance is read")
	if err := cmd.MarkFlagRequired("token"); err != nil {
		return err
	}
	if err := cmd.MarkFlagRequired("account"); err != nil {
		return err
	}

	// Artifact
	cmd.Flags().String("artifact", "",
		fmt.Sprintf("name of the synced artifact whose ABI is used (unless a config file is provided, default is %q)", defaultConfig.Token.Artifact))

	// Config file and node
	cmd.Flags().String("config", "", ConfigFlagDescription)
	addRpcUrlFlag(cmd, defaultConfig)
	return nil
}

// updateProjectConfigWithBalanceFlags will update the given projectConfig with any CLI arguments that were provided
// to the balance command
func updateProjectConfigWithBalanceFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update token artifact
	if cmd.Flags().Changed("artifact") {
		projectConfig.Token.Artifact, err = cmd.Flags().GetString("artifact")
		if err != nil {
			return err
		}
	}

	// Update RPC URL
	if cmd.Flags().Changed("rpc-url") {
		projectConfig.Network.RpcUrl, err = cmd.Flags().GetString("rpc-url")
		if err != nil {
			return err
		}
	}
	return nil
}
