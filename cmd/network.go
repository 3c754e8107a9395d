package cmd

import (
	"context"

	"github.com/crytic/abisync/cmd/exitcodes"
	"github.com/crytic/abisync/config"
	"github.com/crytic/abisync/logging/colors"
	"github.com/crytic/abisync/onchain"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// networkCmd represents the command provider for network
var networkCmd = &cobra.Command{
	Use:               "network",
	Short:             "Checks that a node is on the network the dapp expects",
	Long:              `Reads the chain id from a node and compares it with the chain id the dapp is deployed to`,
	Args:              cmdValidateNoArgs("network"),
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunNetwork,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the network command
	err := addNetworkFlags(networkCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the network command", err)
	}

	// Add the network command and its associated flags to the root command
	rootCmd.AddCommand(networkCmd)
}

// cmdRunNetwork executes the network CLI command
func cmdRunNetwork(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err == nil {
		err = updateProjectConfigWithNetworkFlags(cmd, projectConfig)
	}
	if err == nil {
		err = projectConfig.Validate()
	}
	if err != nil {
		cmdLogger.Error("Failed to run the network command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), projectConfig.Network.TimeoutDuration())
	defer cancel()

	client, err := onchain.Dial(ctx, projectConfig.Network.RpcUrl)
	if err != nil {
		cmdLogger.Error("Failed to connect to the node", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer client.Close()

	_, err = checkNetwork(ctx, client, projectConfig)
	return err
}

// checkNetwork verifies the chain id reported by reader against the configured network. A mismatch is returned as an
// error with exitcodes.ExitCodeWrongNetwork.
func checkNetwork(ctx context.Context, reader onchain.ChainIDReader, projectConfig *config.ProjectConfig) (*onchain.NetworkStatus, error) {
	status, err := onchain.CheckNetwork(ctx, reader, projectConfig.Network.ChainId)
	if err != nil {
		cmdLogger.Error("Failed to check the network at ", projectConfig.Network.RpcUrl, err)
		return nil, exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	if status.WrongNetwork {
		cmdLogger.Warn("The node at ", projectConfig.Network.RpcUrl, " is on chain ID ", colors.RedBold, status.ChainID, colors.Reset,
			", expected ", projectConfig.Network.Name, " (chain ID ", status.ExpectedChainID, ")")
		return status, exitcodes.NewErrorWithExitCode(errors.New(status.SwitchNetworkMessage()), exitcodes.ExitCodeWrongNetwork)
	}

	cmdLogger.Info(colors.GreenBold, colors.CHECK_MARK, colors.Reset, " Connected to ", colors.Bold, projectConfig.Network.Name,
		colors.Reset, " (chain ID ", status.ChainID, ")")
	return status, nil
}
