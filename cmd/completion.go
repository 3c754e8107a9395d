package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// supportedShells describes the shells completion scripts can be generated for
var supportedShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:       "completion <shell>",
	Short:     "Generate shell completion code for the specified shell (bash, zsh, fish or powershell)",
	ValidArgs: supportedShells,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `To load completions:

Bash:

  $ source <(%[1]s completion bash), e.g. source <(abisync completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ %[1]s completion bash > /etc/bash_completion.d/%[1]s
  # macOS:
  $ %[1]s completion bash > $(brew --prefix)/etc/bash_completion.d/%[1]s

Zsh:

  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:

  $ %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish

PowerShell:

  PS> %[1]s completion powershell | Out-String | Invoke-Expression`,
	RunE:          cmdRunCompletion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	completionCmd.Long = fmt.Sprintf(completionCmd.Long, "abisync")
	rootCmd.AddCommand(completionCmd)
}

// cmdRunCompletion writes the completion script for the requested shell to stdout
func cmdRunCompletion(cmd *cobra.Command, args []string) error {
	var err error
	switch args[0] {
	case "bash":
		err = cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		err = cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		err = cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	}
	if err != nil {
		cmdLogger.Error("Unable to generate a "+args[0]+" completion", err)
		return err
	}
	return nil
}
