package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFileTree creates every file in files (relative slash-separated path -> content) beneath root, creating
// intermediate directories as needed. Returns root for convenience.
func WriteFileTree(t *testing.T, root string, files map[string]string) string {
	for relativePath, content := range files {
		path := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// ReadDirectoryFiles returns the name and content of every regular file directly inside dir. Subdirectories are
// ignored.
func ReadDirectoryFiles(t *testing.T, dir string) map[string]string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		files[entry.Name()] = string(b)
	}
	return files
}

// ExecuteInDirectory executes the given method in a given test directory. It changes the current working directory
// to the directory specified, runs the provided method, then restores the working directory. This wraps tests so
// any file artifacts generated do not end up in the codebase directories.
func ExecuteInDirectory(t *testing.T, testPath string, method func()) {
	// Backup our old working directory
	cwd, err := os.Getwd()
	require.NoError(t, err)

	// Check if the test path refers to a file or directory, as we'll want to change our working directory to a
	// directory path.
	testPathInfo, err := os.Stat(testPath)
	require.NoError(t, err)

	testDirectory := testPath
	if !testPathInfo.IsDir() {
		testDirectory = filepath.Dir(testPath)
	}

	err = os.Chdir(testDirectory)
	require.NoError(t, err)

	// Restore our working directory even if the method fails the test, or clean up will fail post testing
	defer func() {
		require.NoError(t, os.Chdir(cwd))
	}()

	method()
}
