// Package publish implements the directory publisher: it replaces the
// destination directory with a full recursive copy of the source directory.
// This is the step that moves the frontend build output into the tree the
// HTTP server serves.
package publish

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
)

// Result reports the resolved paths of a completed publish.
type Result struct {
	Source string
	Dest   string
}

// Publish resolves src and dst to absolute paths, verifies that src exists,
// removes dst entirely (removing an absent path is not an error), and copies
// src recursively to dst.
//
// There is no atomic swap: a failure mid-copy leaves the destination
// partially populated. The operation is a deterministic build step expected
// to run in a controlled pipeline, so failures halt the caller rather than
// being retried or mitigated.
func Publish(src, dst string) (*Result, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to resolve source path").
			WithContext("path", src)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to resolve destination path").
			WithContext("path", dst)
	}

	if _, err := os.Stat(absSrc); os.IsNotExist(err) {
		return nil, errors.SourceMissing(absSrc)
	} else if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to stat source").
			WithContext("path", absSrc)
	}

	// Force-remove semantics: os.RemoveAll returns nil for an absent path.
	if err := os.RemoveAll(absDst); err != nil {
		return nil, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to clear destination").
			WithContext("path", absDst)
	}

	if err := CopyDir(absSrc, absDst); err != nil {
		return nil, errors.CopyFailed(absSrc, absDst, err)
	}

	slog.Debug("published directory", logfields.Source(absSrc), logfields.Dest(absDst))
	return &Result{Source: absSrc, Dest: absDst}, nil
}

// Confirmation returns the single human-readable success line for a publish.
func (r *Result) Confirmation() string {
	return fmt.Sprintf("Published %s -> %s", r.Source, r.Dest)
}

// CopyDir recursively copies a directory tree, preserving structure, contents,
// and file permissions. Symlinks and special files follow default platform
// copy semantics.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Preserve file permissions
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
