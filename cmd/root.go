package cmd

import (
	"os"

	"github.com/crytic/abisync/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// rootCmd syncs the contract artifacts with the default or discovered project configuration when run without a
// sub-command.
var rootCmd = &cobra.Command{
	Use:   "abisync",
	Short: "Syncs compiled contract ABIs into a dapp front end",
	Long: "abisync copies the contract artifacts produced by a Foundry build into the web front end of a dapp, " +
		"and checks the network and token the dapp is deployed to",
	Args:          cobra.NoArgs,
	RunE:          cmdRunRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// cmdLogger is the logger that will be used for the cmd package
var cmdLogger = logging.NewLogger(zerolog.InfoLevel)

// Execute provides an exportable function to invoke the CLI. Returns an error if one was encountered.
func Execute() error {
	// Add stdout as an unstructured, colorized output stream for the command logger
	cmdLogger.AddWriter(os.Stdout, logging.UNSTRUCTURED, true)

	return rootCmd.Execute()
}

// cmdRunRoot performs one sync using abisync.json from the working directory if it exists, or the defaults otherwise.
func cmdRunRoot(cmd *cobra.Command, args []string) error {
	return runSync(cmd)
}
