package cmd

import (
	"fmt"
	"strings"

	"github.com/crytic/abisync/artifacts"
	"github.com/crytic/abisync/config"
	"github.com/crytic/abisync/utils"
	"github.com/spf13/cobra"
)

// addSyncFlags adds the various flags for the sync command
func addSyncFlags(cmd *cobra.Command) error {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	cmd.Flags().SortFlags = false

	// Config file
	cmd.Flags().String("config", "", ConfigFlagDescription)

	// Source directory
	cmd.Flags().String("source", "",
		fmt.Sprintf("artifact directory produced by the contract build (unless a config file is provided, default is %q)", defaultConfig.Sync.SourceDirectory))

	// Target directory
	cmd.Flags().String("target", "",
		fmt.Sprintf("front end directory to copy artifacts into (unless a config file is provided, default is %q)", defaultConfig.Sync.TargetDirectory))

	// Discovery strategy
	strategies := utils.SliceSelect(artifacts.SupportedDiscoveryStrategies, func(strategy artifacts.DiscoveryStrategy) string {
		return string(strategy)
	})
	cmd.Flags().String("strategy", "",
		fmt.Sprintf("artifact discovery strategy, one of %s (unless a config file is provided, default is %q)", strings.Join(strategies, ", "), defaultConfig.Sync.Strategy))

	// Missing source policy
	cmd.Flags().String("missing-source", "",
		fmt.Sprintf("what to do when the artifact directory does not exist, abort or skip (unless a config file is provided, default is %q)", defaultConfig.Sync.MissingSourcePolicy))

	// Build before syncing
	cmd.Flags().Bool("build", false,
		fmt.Sprintf("run the contract build (%q in %q) before syncing", strings.Join(defaultConfig.Sync.BuildCommand, " "), defaultConfig.Sync.BuildDirectory))

	// No color
	cmd.Flags().Bool("no-color", false, "disable colored terminal output")
	return nil
}

// updateProjectConfigWithSyncFlags will update the given projectConfig with any CLI arguments that were provided to
// the sync command. Paths given as flags are relative to the working directory.
func updateProjectConfigWithSyncFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update source directory
	if cmd.Flags().Changed("source") {
		projectConfig.Sync.SourceDirectory, err = cmd.Flags().GetString("source")
		if err != nil {
			return err
		}
		projectConfig.Sync.SourceDirectory, err = absolutePath(projectConfig.Sync.SourceDirectory)
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
		projectConfig.Sync.TargetDirectory, err = absolutePath(projectConfig.Sync.TargetDirectory)
		if err != nil {
			return err
		}
	}

	// Update discovery strategy
	if cmd.Flags().Changed("strategy") {
		strategy, err := cmd.Flags().GetString("strategy")
		if err != nil {
			return err
		}
		projectConfig.Sync.Strategy = artifacts.DiscoveryStrategy(strategy)
	}

	// Update missing source policy
	if cmd.Flags().Changed("missing-source") {
		policy, err := cmd.Flags().GetString("missing-source")
		if err != nil {
			return err
		}
		projectConfig.Sync.MissingSourcePolicy = artifacts.MissingSourcePolicy(policy)
	}

	return updateProjectConfigWithNoColorFlag(cmd, projectConfig)
}
