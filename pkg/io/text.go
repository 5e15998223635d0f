package io

import (
	"io"
	"os"

	"github.com/matzehuels/agendagraph/pkg/errors"
)

// Stdio is the path that selects standard input or standard output.
const Stdio = "-"

// ReadText reads agenda markup from path, or from stdin when path is "-".
func ReadText(path string, stdin io.Reader) (string, error) {
	if path == Stdio || path == "" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInputUnreadable, err, "read stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInputUnreadable, err, "read %s", path)
	}
	return string(data), nil
}

// WriteText writes s to path, or to stdout when path is "-".
func WriteText(path string, s string, stdout io.Writer) error {
	if path == Stdio || path == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := io.WriteString(stdout, s); err != nil {
			return errors.Wrap(errors.ErrCodeOutputFailed, err, "write stdout")
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputFailed, err, "write %s", path)
	}
	return nil
}
