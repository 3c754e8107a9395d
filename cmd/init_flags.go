package cmd

import (
	"github.com/crytic/abisync/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags(cmd *cobra.Command) error {
	// Output path for configuration
	cmd.Flags().String("out", "", "output path for the new project configuration file")

	// Source and target directories, stored as given
	cmd.Flags().String("source", "", "artifact directory produced by the contract build, relative to the configuration file")
	cmd.Flags().String("target", "", "front end directory to copy artifacts into, relative to the configuration file")

	// Overwrite without prompting
	cmd.Flags().Bool("force", false, "overwrite an existing configuration file without prompting")

	return nil
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update source directory
	if cmd.Flags().Changed("source") {
		projectConfig.Sync.SourceDirectory, err = cmd.Flags().GetString("source")
		if err != nil {
			return err
		}
	}

	// Update target directory
	if cmd.Flags().Changed("target") {
		projectConfig.Sync.TargetDirectory, err = cmd.Flags().GetString("target")
		if err != nil {
			return err
		}
	}
	return nil
}
