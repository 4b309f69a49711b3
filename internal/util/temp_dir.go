package util

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

var (
	createTempDirOnce sync.Once
	createTempDirErr  error
	tempDir           string
)

// TempDir returns a process wide working directory, created on first use.
func TempDir() (string, error) {
	createTempDirOnce.Do(func() {
		tmp, err := os.MkdirTemp("", "pdfsplit-*")
		if err != nil {
			createTempDirErr = errors.WithStack(err)
			return
		}

		tempDir = tmp
	})
	if createTempDirErr != nil {
		return "", errors.WithStack(createTempDirErr)
	}

	return tempDir, nil
}

// CleanupTempDir removes the process wide working directory, if any.
func CleanupTempDir() error {
	if tempDir == "" {
		return nil
	}

	if err := os.RemoveAll(tempDir); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
