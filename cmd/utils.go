package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/crytic/abisync/config"
	"github.com/crytic/abisync/logging"
	"github.com/crytic/abisync/logging/colors"
	"github.com/crytic/abisync/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadProjectConfig obtains the project configuration for a command and navigates through the following
// possibilities:
// #1: We will search for either a custom config file (via --config) or the default (abisync.json).
// If we find it, read it. If we can't read it, throw an error.
// #2: If a custom file was provided (--config was used), and we can't find the file, throw an error.
// #3: If abisync.json can't be found, use the default project configuration relative to the working directory.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check to see if --config flag was used and store the value of --config flag
	configFlagUsed := cmd.Flags().Changed("config")
	configPath := filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	if configFlagUsed {
		configPath, err = cmd.Flags().GetString("config")
		if err != nil {
			return nil, err
		}
	}

	// Check to see if the file exists at configPath
	_, existenceError := os.Stat(configPath)

	// Possibility #1: File was found
	if existenceError == nil {
		cmdLogger.Debug("Reading the configuration file at: ", colors.Bold, configPath, colors.Reset)
		return config.ReadProjectConfigFromFile(configPath)
	}

	// Possibility #2: If the --config flag was used, and we couldn't find the file, we'll throw an error
	if configFlagUsed {
		return nil, errors.Wrapf(existenceError, "unable to find the config file at %v", configPath)
	}

	// Possibility #3: --config flag was not used and abisync.json was not found, so use the default project config
	projectConfig := config.GetDefaultProjectConfig()
	projectConfig.SetBaseDirectory(workingDirectory)
	return projectConfig, nil
}

// updateProjectConfigWithNoColorFlag disables colored logging in the projectConfig if --no-color was used
func updateProjectConfigWithNoColorFlag(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	if cmd.Flags().Changed("no-color") {
		noColor, err := cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
		projectConfig.Logging.NoColor = noColor
	}
	return nil
}

// absolutePath returns path made absolute against the working directory, so that paths given as flags are not
// resolved against the configuration file's directory.
func absolutePath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return absolute, nil
}

// setupLogging configures the global logger and the command logger from the project configuration. Console output is
// colored unless disabled, and the global logger also writes a structured log file if a log directory is configured.
// The returned function closes the log file.
func setupLogging(projectConfig *config.ProjectConfig) (func(), error) {
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	} else {
		colors.EnableColor()
	}

	// Apply the configured level and coloring to the command logger as well
	cmdLogger.SetLevel(projectConfig.Logging.Level)
	cmdLogger.RemoveWriter(os.Stdout, logging.UNSTRUCTURED, projectConfig.Logging.NoColor)
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !projectConfig.Logging.NoColor)

	logging.GlobalLogger = logging.NewLogger(projectConfig.Logging.Level)
	logging.GlobalLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, !projectConfig.Logging.NoColor)

	logDirectory := projectConfig.ResolvePath(projectConfig.Logging.LogDirectory)
	if logDirectory == "" {
		return func() {}, nil
	}

	err := utils.MakeDirectory(logDirectory)
	if err != nil {
		return nil, err
	}
	filename := "log-" + strconv.FormatInt(time.Now().Unix(), 10) + ".log"
	file, err := os.Create(filepath.Join(logDirectory, filename))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logging.GlobalLogger.AddWriter(file, logging.STRUCTURED, false)

	return func() {
		logging.GlobalLogger.RemoveWriter(file, logging.STRUCTURED, false)
		_ = file.Close()
	}, nil
}

// commandContext returns the command's context, or a background context if the command was not executed with one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// cmdValidUnusedFlags will return the flags which have not been used yet for dynamic completion of a command
func cmdValidUnusedFlags(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string

	// Examine all the flags, and add any flags that have not been set in the current command line
	// to a list of unused flags
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			// Include the "--" prefix to indicate that it is a flag and not a positional argument.
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdValidateNoArgs returns a cobra.PositionalArgs which makes sure that no positional arguments are provided to the
// named command
func cmdValidateNoArgs(commandName string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.NoArgs(cmd, args); err != nil {
			err = fmt.Errorf("%s does not accept any positional arguments, only flags and their associated values", commandName)
			cmdLogger.Error("Failed to validate args to the "+commandName+" command", err)
			return err
		}
		return nil
	}
}
