package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// CopyFileMode streams src to dst, setting the given file mode on dst. An
// existing dst is truncated.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	return copyWithFlags(src, dst, mode, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// CopyPreserving copies src to dst keeping the source permission bits and
// modification time. dst must not exist; an existing file yields an error
// satisfying errors.Is(err, fs.ErrExist).
func CopyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}
	if err := copyWithFlags(src, dst, info.Mode().Perm(), os.O_CREATE|os.O_WRONLY|os.O_EXCL); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserve mtime: %w", err)
	}
	return nil
}

// Exists reports whether path names an existing filesystem entry.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsExist reports whether err came from a copy refusing to overwrite.
func IsExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

func copyWithFlags(src, dst string, mode os.FileMode, flags int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, flags, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
