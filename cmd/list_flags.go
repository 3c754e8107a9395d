package cmd

import (
	"fmt"

	"github.com/crytic/abisync/config"
	"github.com/spf13/cobra"
)

// addListFlags adds the various flags for the list command
func addListFlags(cmd *cobra.Command) error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Config file
	cmd.Flags().String("config", "", ConfigFlagDescription)

	// Target directory
	cmd.Flags().String("target", "",
		fmt.Sprintf("front end directory holding the synced artifacts (unless a config file is provided, default is %q)", defaultConfig.Sync.TargetDirectory))
	return nil
}

// updateProjectConfigWithListFlags will update the given projectConfig with any CLI arguments that were provided to
// the list command
func updateProjectConfigWithListFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if cmd.Flags().Changed("target") {
		target, err := cmd.Flags().GetString("target")
		if err != nil {
			return err
		}
		projectConfig.Sync.TargetDirectory, err = absolutePath(target)
		if err != nil {
			return err
		}
	}
	return nil
}
