package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CopyFile copies a file from a source path to a destination path byte-for-byte, overwriting any file already at
// the destination. The destination directory is created if it does not exist. Returns an error if one occurs.
func CopyFile(sourcePath string, targetPath string) error {
	// Obtain file info for the source file
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}

	// If the path refers to a directory, return an error
	if sourceInfo.IsDir() {
		return errors.Errorf("could not copy file from '%s' to '%s' because the source path refers to a directory", sourcePath, targetPath)
	}

	// Refuse to copy a file onto itself, since truncating the target would empty the source
	if targetInfo, err := os.Stat(targetPath); err == nil && os.SameFile(sourceInfo, targetInfo) {
		return errors.Errorf("could not copy file from '%s' to '%s' because both paths refer to the same file", sourcePath, targetPath)
	}

	// Ensure the existence of the directory we wish to copy to.
	err = MakeDirectory(filepath.Dir(targetPath))
	if err != nil {
		return err
	}

	// Open a handle to the source file
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer sourceFile.Close()

	// Truncate or create the target file
	targetFile, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.WithStack(err)
	}

	// Copy contents from one file handle to the other. The close error matters here since it may report a failed
	// flush of the written data.
	_, err = io.Copy(targetFile, sourceFile)
	closeErr := targetFile.Close()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(closeErr)
}

// GetFileNameWithoutExtension obtains a filename without the extension. This does not contain any preceding directory
// paths.
func GetFileNameWithoutExtension(filePath string) string {
	return GetFilePathWithoutExtension(filepath.Base(filePath))
}

// GetFilePathWithoutExtension obtains a file path without the extension. This retains all preceding directory paths.
func GetFilePathWithoutExtension(filePath string) string {
	return filePath[:len(filePath)-len(filepath.Ext(filePath))]
}

// MakeDirectory creates a directory at the given path, including any parent directories which do not exist.
// Returns an error, if one occurred.
func MakeDirectory(dirToMake string) error {
	dirInfo, err := os.Stat(dirToMake)
	if err != nil {
		// Directory does not exist, as expected.
		if os.IsNotExist(err) {
			return errors.WithStack(os.MkdirAll(dirToMake, 0755))
		}
		// Some other sort of error, throw it
		return errors.WithStack(err)
	}

	// dirToMake is a file, throw an error accordingly
	if !dirInfo.IsDir() {
		return fmt.Errorf("there is a file with the same name as %s", dirToMake)
	}

	// Directory already exists, good to go
	return nil
}

// DirectoryExists returns a boolean indicating whether a directory exists at the provided path, along with the
// os.FileInfo of whatever exists there. A missing path is not an error.
func DirectoryExists(path string) (bool, os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil, nil
		}
		return false, nil, errors.WithStack(err)
	}
	return info.IsDir(), info, nil
}
