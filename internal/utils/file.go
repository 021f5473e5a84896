package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// WriteFile writes the contents of r to filepath. The file is always closed,
// and it is removed again if anything fails so no partial output is left behind.
func WriteFile(filepath string, r io.Reader) (err error) {
	// Create the file
	out, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := out.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("closing %s: %w", filepath, closeErr)
		}
		if err != nil {
			err = errors.Join(err, removePartial(filepath))
		}
	}()

	// Copy the data to file
	if _, err = io.Copy(out, r); err != nil {
		return fmt.Errorf("writing %s: %w", filepath, err)
	}

	return nil
}

func removePartial(filepath string) error {
	if err := os.Remove(filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing partial output %s: %w", filepath, err)
	}
	return nil
}
