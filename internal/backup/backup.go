// Package backup keeps timestamped copies of the habit file. Each backup is
// a directory named after its creation time holding the copy and a manifest
// with summary statistics.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"habits/internal/fsutil"
	"habits/internal/habit"
	"habits/internal/storage"
)

const (
	ManifestVersion = "2"
	ManifestFile    = "manifest.json"

	// nameLayout names backup directories. Milliseconds keep back-to-back
	// backups apart.
	nameLayout = "2006-01-02_150405.000"
)

var (
	// ErrNotFound is returned for a backup name with no backup directory.
	ErrNotFound = errors.New("backup not found")
	// ErrNoBackups is returned by RestoreLatest when there is nothing to restore.
	ErrNoBackups = errors.New("no backups available")
	// ErrInvalidName is returned for names that are not backup timestamps.
	ErrInvalidName = errors.New("invalid backup name")
)

// Stats summarizes the habit file at backup time.
type Stats struct {
	Habits      int `json:"habits"`
	Daily       int `json:"daily"`
	Weekly      int `json:"weekly"`
	Completions int `json:"completions"`
}

// Manifest is written next to every backup copy.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	// HabitFile is the file name of the copy; empty when there was no
	// habit file to back up.
	HabitFile string `json:"habit_file,omitempty"`
	Stats     Stats  `json:"stats"`
}

// Info describes one backup.
type Info struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Stats     Stats
}

// Manager creates and restores backups of one habit file.
type Manager struct {
	habitFile  string
	backupDir  string
	appVersion string
	now        func() time.Time
}

// NewManager creates a manager for habitFile storing backups in backupDir.
func NewManager(habitFile, backupDir, appVersion string) *Manager {
	return &Manager{
		habitFile:  habitFile,
		backupDir:  backupDir,
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups.
// Passing nil resets it to time.Now.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Create copies the habit file into a new backup and returns its name. A
// missing habit file gives a backup with an empty manifest.
func (m *Manager) Create() (string, error) {
	now := m.now()
	name := now.Format(nameLayout)
	dir := filepath.Join(m.backupDir, name)
	if err := os.MkdirAll(dir, fsutil.DirPerm); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
	}

	data, err := os.ReadFile(m.habitFile)
	switch {
	case err == nil:
		manifest.HabitFile = filepath.Base(m.habitFile)
		if err := fsutil.WriteFileAtomic(filepath.Join(dir, manifest.HabitFile), data, 0600); err != nil {
			_ = os.RemoveAll(dir)
			return "", fmt.Errorf("copy %s: %w", manifest.HabitFile, err)
		}
		if habits, err := storage.Decode(bytes.NewReader(data)); err == nil {
			manifest.Stats = statsOf(habits)
		}
	case !errors.Is(err, fs.ErrNotExist):
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("read %s: %w", m.habitFile, err)
	}

	out, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = fsutil.WriteFileAtomic(filepath.Join(dir, ManifestFile), out, 0600)
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return name, nil
}

// List returns all backups, newest first. Directories that are not
// backups are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if info, err := m.info(entry.Name()); err == nil {
			backups = append(backups, *info)
		}
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// GetBackup returns information about one backup.
func (m *Manager) GetBackup(name string) (*Info, error) {
	if err := m.exists(name); err != nil {
		return nil, err
	}
	return m.info(name)
}

// Restore replaces the habit file with the copy from a backup. The copy must
// decode cleanly, and the current file is backed up first.
func (m *Manager) Restore(name string) error {
	if err := m.exists(name); err != nil {
		return err
	}

	dir := filepath.Join(m.backupDir, name)
	file := filepath.Base(m.habitFile)
	var manifest Manifest
	if readManifest(dir, &manifest) == nil && manifest.HabitFile != "" {
		file = manifest.HabitFile
	}

	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("backup %s has no habit file: %w", name, err)
	}
	if _, err := storage.Decode(bytes.NewReader(data), storage.WithIncompletePolicy(storage.RejectIncomplete)); err != nil {
		return fmt.Errorf("backup %s is invalid: %w", name, err)
	}

	safety, err := m.Create()
	if err != nil {
		return fmt.Errorf("create safety backup: %w", err)
	}
	if err := fsutil.WriteFile(m.habitFile, data, 0600); err != nil {
		return fmt.Errorf("restore %s (safety backup: %s): %w", file, safety, err)
	}
	return nil
}

// RestoreLatest restores the most recent backup and returns its name.
func (m *Manager) RestoreLatest() (string, error) {
	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", ErrNoBackups
	}
	name := backups[0].Name
	return name, m.Restore(name)
}

// Delete removes one backup.
func (m *Manager) Delete(name string) error {
	if err := m.exists(name); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(m.backupDir, name))
}

// Prune deletes all but the keep most recent backups and returns how many
// were deleted.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	backups, err := m.List()
	if err != nil || len(backups) <= keep {
		return 0, err
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// exists validates name and checks that the backup directory is there.
func (m *Manager) exists(name string) error {
	if _, err := parseName(name); err != nil {
		return err
	}
	if !fsutil.Exists(filepath.Join(m.backupDir, name)) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// info reads the manifest of a backup. Without a manifest the creation time
// comes from the directory name.
func (m *Manager) info(name string) (*Info, error) {
	created, err := parseName(name)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readManifest(dir, &manifest); err == nil {
		created = manifest.CreatedAt
	}
	return &Info{
		Name:      name,
		Path:      dir,
		CreatedAt: created,
		Stats:     manifest.Stats,
	}, nil
}

func readManifest(dir string, manifest *Manifest) error {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, manifest)
}

func statsOf(habits []*habit.Habit) Stats {
	list := habit.List(habits)
	s := Stats{
		Habits: len(list),
		Daily:  list.NrDaily(),
		Weekly: list.NrWeekly(),
	}
	for _, h := range list {
		s.Completions += len(h.CompletedTimes)
	}
	return s
}

// parseName returns the creation time encoded in a backup name. Anything
// else, including path-like names, is rejected.
func parseName(name string) (time.Time, error) {
	if name == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidName)
	}
	t, err := time.ParseInLocation(nameLayout, name, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return t, nil
}
