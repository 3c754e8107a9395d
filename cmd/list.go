package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/crytic/abisync/artifacts/types"
	"github.com/crytic/abisync/logging/colors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// listCmd represents the command provider for list
var listCmd = &cobra.Command{
	Use:               "list",
	Short:             "Lists the contract ABIs synced into the front end",
	Long:              `Parses every synced contract artifact and prints its number of functions and events and the compiler version which produced it`,
	Args:              cmdValidateNoArgs("list"),
	ValidArgsFunction: cmdValidUnusedFlags,
	RunE:              cmdRunList,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Add all the flags allowed for the list command
	err := addListFlags(listCmd)
	if err != nil {
		cmdLogger.Panic("Failed to initialize the list command", err)
	}

	// Add the list command and its associated flags to the root command
	rootCmd.AddCommand(listCmd)
}

// cmdRunList executes the list CLI command
func cmdRunList(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err == nil {
		err = updateProjectConfigWithListFlags(cmd, projectConfig)
	}
	if err != nil {
		cmdLogger.Error("Failed to run the list command", err)
		return err
	}

	targetDirectory := projectConfig.ResolvePath(projectConfig.Sync.TargetDirectory)
	descriptors, failures, err := types.ReadArtifactDescriptors(targetDirectory)
	if err != nil {
		cmdLogger.Error("Failed to read the synced artifacts, has a sync been run?", err)
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CONTRACT\tFUNCTIONS\tEVENTS\tCOMPILER")
	for _, descriptor := range descriptors {
		compilerVersion := "unknown"
		if version, err := descriptor.CompilerVersion(); err == nil {
			compilerVersion = version.String()
		}
		fmt.Fprintf(writer, "%s\t%d\t%d\t%s\n", descriptor.Name, len(descriptor.Abi.Methods), len(descriptor.Abi.Events), compilerVersion)
	}
	if err = writer.Flush(); err != nil {
		return err
	}

	// Report unparsable files in name order
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		cmdLogger.Warn(colors.RedBold, colors.CROSS_MARK, colors.Reset, " ", name, " is not a contract artifact: ", failures[name].Error())
	}
	cmdLogger.Info(len(descriptors), " contract ABIs in ", colors.Bold, targetDirectory, colors.Reset)
	return nil
}
