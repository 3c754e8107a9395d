package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crytic/abisync/config"
	"github.com/crytic/abisync/logging/colors"
	"github.com/spf13/cobra"
)

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init",
	Short:             "Initializes a project configuration",
	Long:              `Writes a project configuration (` + DefaultProjectConfigFilename + `) with the default dapp layout`,
	Args:              cmdValidateNoArgs("init"),
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunInit,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add flags to init command
	err := addInitFlags(initCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the init command", err)
	}

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdRunInit executes the init CLI command and updates the project configuration with any flags
func cmdRunInit(cmd *cobra.Command, args []string) error {
	// Check to see if --out flag was used and store the value of --out flag
	outputFlagUsed := cmd.Flags().Changed("out")
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	// If we weren't provided an output path (flag was not used), we use our working directory
	if !outputFlagUsed {
		workingDirectory, err := os.Getwd()
		if err != nil {
			cmdLogger.Error("Failed to run the init command", err)
			return err
		}
		outputPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	projectConfig := config.GetDefaultProjectConfig()

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithInitFlags(cmd, projectConfig)
	if err == nil {
		err = projectConfig.Validate()
	}
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}
	if _, err = os.Stat(outputPath); err == nil && !force {
		// Prompt user for overwrite confirmation
		fmt.Fprint(cmd.OutOrStdout(), "The file already exists. Overwrite? (y/n): ")
		var response string
		if _, err := fmt.Fscan(cmd.InOrStdin(), &response); err != nil {
			cmdLogger.Error("Failed to scan input", err)
			return err
		}

		if response != "y" && response != "Y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Operation canceled.")
			return nil
		}
	}

	// Write our project configuration
	err = projectConfig.WriteToFile(outputPath)
	if err != nil {
		cmdLogger.Error("Failed to run the init command", err)
		return err
	}

	// Print a success message
	if absoluteOutputPath, err := filepath.Abs(outputPath); err == nil {
		outputPath = absoluteOutputPath
	}
	cmdLogger.Info("Project configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}
