package cmd

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/crytic/abisync/artifacts"
	"github.com/crytic/abisync/cmd/exitcodes"
	"github.com/crytic/abisync/config"
	"github.com/crytic/abisync/logging/colors"
	"github.com/crytic/abisync/utils/testutils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCommand returns a fresh command with the flags registered by addFlags, so flag state does not leak
// between tests through the package-level commands.
func newTestCommand(t *testing.T, addFlags func(cmd *cobra.Command) error, flags map[string]string) *cobra.Command {
	cmd := &cobra.Command{}
	if addFlags != nil {
		require.NoError(t, addFlags(cmd))
	}
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

// writeTestProject writes a dapp project with a built Foundry output tree and returns its root.
func writeTestProject(t *testing.T) string {
	projectDir := t.TempDir()
	testutils.WriteFileTree(t, projectDir, map[string]string{
		"foundry/out/Counter.sol/Counter.json":         `{"abi":[{"type":"function","name":"increment","inputs":[],"outputs":[],"stateMutability":"nonpayable"}]}`,
		"foundry/out/SimpleToken.sol/SimpleToken.json": `{"abi":[],"metadata":{"compiler":{"version":"0.8.20+commit.a1b79de6"}}}`,
		"foundry/out/build-info/abc.json":              `{"id":"abc"}`,
	})
	return projectDir
}

// TestRunSyncDefaults checks that a sync with no flags and no configuration file uses the default layout relative
// to the working directory and records the artifact hash.
func TestRunSyncDefaults(t *testing.T) {
	projectDir := writeTestProject(t)

	testutils.ExecuteInDirectory(t, projectDir, func() {
		require.NoError(t, runSync(newTestCommand(t, nil, nil)))
	})

	synced := testutils.ReadDirectoryFiles(t, filepath.Join(projectDir, "apps", "web", "lib", "contracts"))
	assert.Len(t, synced, 2)
	assert.Contains(t, synced, "Counter.json")
	assert.Contains(t, synced, "SimpleToken.json")
	assert.NotNil(t, artifacts.LoadArtifactHashCache(filepath.Join(projectDir, ".abisync")))
}

// TestRunSyncWithFlags checks that flags override the default directories and options.
func TestRunSyncWithFlags(t *testing.T) {
	projectDir := writeTestProject(t)
	targetDir := filepath.Join(projectDir, "abis")

	cmd := newTestCommand(t, addSyncFlags, map[string]string{
		"source":   filepath.Join(projectDir, "foundry", "out"),
		"target":   targetDir,
		"strategy": "direct",
		"no-color": "true",
	})
	testutils.ExecuteInDirectory(t, projectDir, func() {
		require.NoError(t, runSync(cmd))
	})

	assert.Len(t, testutils.ReadDirectoryFiles(t, targetDir), 2)
	assert.NoDirExists(t, filepath.Join(projectDir, "apps"))
}

// TestRunSyncMissingSource checks the exit codes of both missing source policies.
func TestRunSyncMissingSource(t *testing.T) {
	projectDir := t.TempDir()
	targetDir := filepath.Join(projectDir, "apps", "web", "lib", "contracts")

	testutils.ExecuteInDirectory(t, projectDir, func() {
		err := runSync(newTestCommand(t, addSyncFlags, nil))
		_, exitCode := exitcodes.GetInnerErrorAndExitCode(err)
		assert.EqualValues(t, exitcodes.ExitCodeMissingInput, exitCode)
		assert.NoDirExists(t, targetDir)

		err = runSync(newTestCommand(t, addSyncFlags, map[string]string{"missing-source": "skip"}))
		assert.NoError(t, err)
		assert.DirExists(t, targetDir)
	})
}

// TestRunSyncConfigFile checks that relative paths in a configuration file resolve against the file's directory,
// not the working directory.
func TestRunSyncConfigFile(t *testing.T) {
	projectDir := writeTestProject(t)
	projectConfig := config.GetDefaultProjectConfig()
	projectConfig.Sync.TargetDirectory = "web/contracts"
	configPath := filepath.Join(projectDir, DefaultProjectConfigFilename)
	require.NoError(t, projectConfig.WriteToFile(configPath))

	cmd := newTestCommand(t, addSyncFlags, map[string]string{"config": configPath})
	testutils.ExecuteInDirectory(t, t.TempDir(), func() {
		require.NoError(t, runSync(cmd))
	})
	assert.Len(t, testutils.ReadDirectoryFiles(t, filepath.Join(projectDir, "web", "contracts")), 2)

	// A configuration file given explicitly must exist.
	cmd = newTestCommand(t, addSyncFlags, map[string]string{"config": filepath.Join(projectDir, "missing.json")})
	assert.Error(t, runSync(cmd))

	// An invalid configuration is rejected before syncing.
	cmd = newTestCommand(t, addSyncFlags, map[string]string{"config": configPath, "strategy": "glob"})
	assert.Error(t, runSync(cmd))
}

// TestRunSyncBuild checks that --build runs the configured build command before syncing.
func TestRunSyncBuild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("build commands are exercised with sh")
	}
	projectDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(projectDir, "foundry"), 0755))

	projectConfig := config.GetDefaultProjectConfig()
	projectConfig.Sync.BuildCommand = []string{"sh", "-c", `mkdir -p out/Built.sol && echo '{"abi":[]}' > out/Built.sol/Built.json`}
	configPath := filepath.Join(projectDir, DefaultProjectConfigFilename)
	require.NoError(t, projectConfig.WriteToFile(configPath))

	cmd := newTestCommand(t, addSyncFlags, map[string]string{"config": configPath, "build": "true"})
	require.NoError(t, runSync(cmd))
	assert.FileExists(t, filepath.Join(projectDir, "apps", "web", "lib", "contracts", "Built.json"))

	// A failing build does not sync.
	projectConfig.Sync.BuildCommand = []string{"sh", "-c", "exit 1"}
	require.NoError(t, projectConfig.WriteToFile(configPath))
	assert.Error(t, runSync(newTestCommand(t, addSyncFlags, map[string]string{"config": configPath, "build": "true"})))
}

// TestRunInit checks that init writes a readable default configuration and only overwrites it when confirmed.
func TestRunInit(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)

	cmd := newTestCommand(t, addInitFlags, map[string]string{"out": outputPath, "target": "web/abis"})
	require.NoError(t, cmdRunInit(cmd, nil))
	projectConfig, err := config.ReadProjectConfigFromFile(outputPath)
	require.NoError(t, err)
	assert.EqualValues(t, "web/abis", projectConfig.Sync.TargetDirectory)
	assert.EqualValues(t, "foundry/out", projectConfig.Sync.SourceDirectory)

	// Declining the overwrite prompt keeps the file.
	cmd = newTestCommand(t, addInitFlags, map[string]string{"out": outputPath})
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmdRunInit(cmd, nil))
	projectConfig, err = config.ReadProjectConfigFromFile(outputPath)
	require.NoError(t, err)
	assert.EqualValues(t, "web/abis", projectConfig.Sync.TargetDirectory)

	// --force overwrites without prompting.
	cmd = newTestCommand(t, addInitFlags, map[string]string{"out": outputPath, "force": "true"})
	require.NoError(t, cmdRunInit(cmd, nil))
	projectConfig, err = config.ReadProjectConfigFromFile(outputPath)
	require.NoError(t, err)
	assert.EqualValues(t, "apps/web/lib/contracts", projectConfig.Sync.TargetDirectory)
}

// TestRunList checks that list prints one row per synced artifact.
func TestRunList(t *testing.T) {
	projectDir := writeTestProject(t)
	testutils.ExecuteInDirectory(t, projectDir, func() {
		require.NoError(t, runSync(newTestCommand(t, nil, nil)))
	})

	var output bytes.Buffer
	cmd := newTestCommand(t, addListFlags, map[string]string{"target": filepath.Join(projectDir, "apps", "web", "lib", "contracts")})
	cmd.SetOut(&output)
	require.NoError(t, cmdRunList(cmd, nil))

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "CONTRACT")
	assert.Regexp(t, `^Counter\s+1\s+0\s+unknown$`, lines[1])
	assert.Regexp(t, `^SimpleToken\s+0\s+0\s+0\.8\.20`, lines[2])

	// Listing before any sync fails.
	cmd = newTestCommand(t, addListFlags, map[string]string{"target": filepath.Join(projectDir, "missing")})
	assert.Error(t, cmdRunList(cmd, nil))
}

// fixedChainIDReader reports a fixed chain id.
type fixedChainIDReader uint64

func (f fixedChainIDReader) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(uint64(f)), nil
}

// TestCheckNetworkExitCode checks that a chain id mismatch maps to the wrong network exit code and message.
func TestCheckNetworkExitCode(t *testing.T) {
	projectConfig := config.GetDefaultProjectConfig()

	status, err := checkNetwork(context.Background(), fixedChainIDReader(31337), projectConfig)
	require.NoError(t, err)
	assert.False(t, status.WrongNetwork)

	status, err = checkNetwork(context.Background(), fixedChainIDReader(1), projectConfig)
	require.NotNil(t, status)
	assert.True(t, status.WrongNetwork)
	innerErr, exitCode := exitcodes.GetInnerErrorAndExitCode(err)
	assert.EqualValues(t, exitcodes.ExitCodeWrongNetwork, exitCode)
	assert.EqualValues(t, "Wrong Network: switch to chain ID 31337 in your wallet", innerErr.Error())
}

// TestRunBalanceValidation checks that malformed addresses and missing artifacts fail before any RPC call.
func TestRunBalanceValidation(t *testing.T) {
	projectDir := t.TempDir()
	account := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	testutils.ExecuteInDirectory(t, projectDir, func() {
		cmd := newTestCommand(t, addBalanceFlags, map[string]string{"token": "0x1234", "account": account})
		assert.Error(t, cmdRunBalance(cmd, nil))

		// No synced SimpleToken.json exists yet.
		cmd = newTestCommand(t, addBalanceFlags, map[string]string{"token": account, "account": account})
		assert.Error(t, cmdRunBalance(cmd, nil))
	})
}

// TestSetupLogging checks that the configured level and color setting apply to the command logger too.
func TestSetupLogging(t *testing.T) {
	previousLevel := cmdLogger.Level()
	t.Cleanup(func() {
		cmdLogger.SetLevel(previousLevel)
		colors.EnableColor()
	})

	projectConfig := config.GetDefaultProjectConfig()
	projectConfig.Logging.Level = zerolog.DebugLevel
	projectConfig.Logging.NoColor = true
	projectConfig.Logging.LogDirectory = ""

	closeLogs, err := setupLogging(projectConfig)
	require.NoError(t, err)
	closeLogs()

	assert.Equal(t, zerolog.DebugLevel, cmdLogger.Level())
	assert.False(t, colors.Enabled())

	projectConfig.Logging.Level = zerolog.WarnLevel
	projectConfig.Logging.NoColor = false
	closeLogs, err = setupLogging(projectConfig)
	require.NoError(t, err)
	closeLogs()
	assert.Equal(t, zerolog.WarnLevel, cmdLogger.Level())
}
