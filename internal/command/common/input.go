package common

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const stdinName = "stdin.pdf"

// ReadInput reads the whole input file, '-' meaning stdin. It returns the
// name of the document and its content.
func ReadInput(path string) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, errors.WithStack(err)
		}

		return stdinName, data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, errors.Wrapf(err, "could not read '%s'", path)
	}

	return filepath.Base(path), data, nil
}
