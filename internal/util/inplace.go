package util

import (
	"fmt"
	"io"
	"os"
)

// EditInPlace rewrites the file at path through fn. The original is
// renamed to path+suffix, fn streams the backup into a fresh file at the
// original path, and the backup is deleted only after everything
// succeeded. If anything fails after the rename, the backup is left
// behind so no data is lost; if the output file cannot even be created,
// the original name is restored.
func EditInPlace(path, suffix string, fn func(w io.Writer, r io.Reader) error) error {
	if suffix == "" {
		return fmt.Errorf("in-place edit of %s: empty backup suffix", path)
	}
	backup := path + suffix

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("in-place edit of %s: %w", path, err)
	}

	if err := os.Rename(path, backup); err != nil {
		return fmt.Errorf("backing up %s to %s: %w", path, backup, err)
	}

	in, err := os.Open(backup)
	if err != nil {
		os.Rename(backup, path)
		return fmt.Errorf("opening backup %s: %w", backup, err)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		in.Close()
		os.Rename(backup, path)
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := fn(out, in); err != nil {
		out.Close()
		in.Close()
		return err
	}
	if err := out.Close(); err != nil {
		in.Close()
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := in.Close(); err != nil {
		return fmt.Errorf("closing backup %s: %w", backup, err)
	}

	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("removing backup %s: %w", backup, err)
	}
	return nil
}
