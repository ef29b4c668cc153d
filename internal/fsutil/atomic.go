// Package fsutil holds the file helpers shared by the habit file, the
// config file and backups. All writes go through a temp file and a rename
// so a crash never leaves a half-written habit file behind.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// DirPerm is used for directories created on behalf of a write.
const DirPerm os.FileMode = 0700

// BackupSuffix is appended to a file's name by KeepBackup.
const BackupSuffix = ".bak"

// WriteFile creates the parent directory of path if needed and then writes
// data atomically.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return WriteFileAtomic(path, data, perm)
}

// WriteFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path. The directory must exist.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpPath, err := writeTemp(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
	}
	syncDir(dir)
	return nil
}

// CopyFile copies src to dst atomically. A missing src is reported with
// an error matching fs.ErrNotExist.
func CopyFile(src, dst string, perm os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	return WriteFile(dst, data, perm)
}

// KeepBackup copies the current contents of path to path+BackupSuffix. It
// reports whether a copy was written; a missing file or a failed copy never
// stops the caller's own write.
func KeepBackup(path string, perm os.FileMode) bool {
	err := CopyFile(path, path+BackupSuffix, perm)
	return err == nil
}

// Exists reports whether path exists. Errors other than fs.ErrNotExist
// count as existing so callers do not overwrite what they cannot inspect.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func writeTemp(dir, base string, data []byte, perm os.FileMode) (string, error) {
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	name := tmp.Name()

	err = tmp.Chmod(perm)
	if err == nil {
		_, err = tmp.Write(data)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// replace renames tmp over path. Windows refuses to rename over an
// existing file, so the destination is removed first there.
func replace(tmp, path string) error {
	err := os.Rename(tmp, path)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		return err
	}
	return os.Rename(tmp, path)
}

func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}
