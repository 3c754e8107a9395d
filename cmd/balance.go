package cmd

import (
	"context"
	"path/filepath"

	"github.com/crytic/abisync/artifacts"
	"github.com/crytic/abisync/artifacts/types"
	"github.com/crytic/abisync/cmd/exitcodes"
	"github.com/crytic/abisync/logging/colors"
	"github.com/crytic/abisync/onchain"
	"github.com/crytic/abisync/utils"
	"github.com/spf13/cobra"
)

// balanceCmd represents the command provider for balance
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Reads an account's token balance using a synced ABI",
	Long: `Reads an account's balance of the dapp's token by calling balanceOf with the ABI of a synced artifact
(SimpleToken by default), after checking that the node is on the expected network`,
	Args:              cmdValidateNoArgs("balance"),
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunBalance,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the balance command
	err := addBalanceFlags(balanceCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the balance command", err)
	}

	// Add the balance command and its associated flags to the root command
	rootCmd.AddCommand(balanceCmd)
}

// cmdRunBalance executes the balance CLI command
func cmdRunBalance(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err == nil {
		err = updateProjectConfigWithBalanceFlags(cmd, projectConfig)
	}
	if err == nil {
		err = projectConfig.Validate()
	}
	if err != nil {
		cmdLogger.Error("Failed to run the balance command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Parse the addresses
	tokenFlag, err := cmd.Flags().GetString("token")
	if err != nil {
		return err
	}
	token, err := utils.HexStringToAddress(tokenFlag)
	if err != nil {
		cmdLogger.Error("Invalid token address", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	accountFlag, err := cmd.Flags().GetString("account")
	if err != nil {
		return err
	}
	account, err := utils.HexStringToAddress(accountFlag)
	if err != nil {
		cmdLogger.Error("Invalid account address", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Load the token ABI from the synced artifacts
	artifactPath := filepath.Join(
		projectConfig.ResolvePath(projectConfig.Sync.TargetDirectory),
		projectConfig.Token.Artifact+artifacts.ArtifactFileExtension,
	)
	descriptor, err := types.ReadArtifactDescriptor(artifactPath)
	if err != nil {
		cmdLogger.Error("Failed to read the token artifact, has a sync been run?", err)
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

	if _, err = checkNetwork(ctx, client, projectConfig); err != nil {
		return err
	}

	balance, err := onchain.ReadTokenBalance(ctx, client, descriptor.Abi, *token, *account, projectConfig.Token.Symbol, projectConfig.Token.Decimals)
	if err != nil {
		cmdLogger.Error("Failed to read the token balance", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	cmdLogger.Info("Balance of ", colors.Bold, onchain.FormatAddress(account.Hex(), 4), colors.Reset, ": ", colors.GreenBold, balance.Formatted(), colors.Reset)
	return nil
}
