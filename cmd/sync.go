package cmd

import (
	"strings"

	"github.com/crytic/abisync/artifacts"
	"github.com/crytic/abisync/cmd/exitcodes"
	"github.com/crytic/abisync/logging/colors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// syncCmd represents the command provider for sync
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copies the compiled contract ABIs into the front end",
	Long: `Copies every contract artifact from the contract build output (foundry/out by default) into the flat
front end contracts directory (apps/web/lib/contracts by default). build-info directories are never copied.`,
	Args:              cmdValidateNoArgs("sync"),
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunSync,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the sync command
	err := addSyncFlags(syncCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the sync command", err)
	}

	// Add the sync command and its associated flags to the root command
	rootCmd.AddCommand(syncCmd)
}

// cmdRunSync executes the sync CLI command
func cmdRunSync(cmd *cobra.Command, args []string) error {
	return runSync(cmd)
}

// runSync reads the project configuration, applies any sync flags present on cmd, optionally builds the contracts,
// and runs a single sync. A missing artifact directory maps to exitcodes.ExitCodeMissingInput. Per-artifact copy
// failures are reported but do not fail the command.
func runSync(cmd *cobra.Command) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the sync command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Update the project configuration given whatever flags were set using the CLI
	err = updateProjectConfigWithSyncFlags(cmd, projectConfig)
	if err == nil {
		err = projectConfig.Validate()
	}
	if err != nil {
		cmdLogger.Error("Failed to run the sync command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	closeLogs, err := setupLogging(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to set up logging", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer closeLogs()

	// Build the contracts first if requested
	build := false
	if cmd.Flags().Lookup("build") != nil {
		build, err = cmd.Flags().GetBool("build")
		if err != nil {
			return err
		}
	}
	if build {
		buildDirectory := projectConfig.ResolvePath(projectConfig.Sync.BuildDirectory)
		cmdLogger.Info("Building contracts with ", colors.Bold, strings.Join(projectConfig.Sync.BuildCommand, " "), colors.Reset, " in ", buildDirectory)
		if _, err = artifacts.BuildContracts(projectConfig.Sync.BuildCommand, buildDirectory); err != nil {
			cmdLogger.Error("Failed to build the contracts", err)
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
		}
	}

	syncer, err := artifacts.NewSyncer(
		projectConfig.ResolvePath(projectConfig.Sync.SourceDirectory),
		projectConfig.ResolvePath(projectConfig.Sync.TargetDirectory),
		projectConfig.Sync.SyncOptions(),
	)
	if err != nil {
		cmdLogger.Error("Failed to sync the contract ABIs", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	// Collect the names of the artifacts that were not synced so they can be listed once the run is over
	failedNames := make([]string, 0)
	syncer.Events.ArtifactCopyFailed.Subscribe(func(event artifacts.ArtifactCopyFailedEvent) error {
		failedNames = append(failedNames, event.Failure.Name)
		return nil
	})

	// Compare the synced set against the previous run once the sync is finished
	if cacheDirectory := projectConfig.ResolvePath(projectConfig.Sync.CacheDirectory); cacheDirectory != "" {
		syncer.Events.SyncFinished.Subscribe(func(event artifacts.SyncFinishedEvent) error {
			artifacts.NotifyArtifactHashStatus(event.Report, cacheDirectory, cmdLogger)
			return nil
		})
	}

	_, err = syncer.Sync()
	if err != nil {
		var missingInputErr *artifacts.MissingInputError
		if errors.As(err, &missingInputErr) {
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeMissingInput)
		}
		cmdLogger.Error("Failed to sync the contract ABIs", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	if len(failedNames) > 0 {
		cmdLogger.Warn("The following were not synced: ", colors.Bold, strings.Join(failedNames, ", "), colors.Reset)
	}
	return nil
}
