package artifacts

import (
	"os/exec"

	"github.com/crytic/abisync/utils"
	"github.com/pkg/errors"
)

// BuildContracts runs the contract build command in the given directory, producing the artifact directory a sync
// reads from. Returns the command's combined output, and an error containing that output if the build failed.
func BuildContracts(command []string, directory string) ([]byte, error) {
	if len(command) == 0 {
		return nil, errors.New("no contract build command was provided")
	}

	// Create our command
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = directory
	_, _, cmdCombined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return cmdCombined, errors.Errorf("error while executing %s:\n%s\n\nCommand Output:\n%s\n", command[0], err.Error(), string(cmdCombined))
	}
	return cmdCombined, nil
}
