package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHabits = `* TODO 🏃 Exercise
:PROPERTIES:
:created: [2025-12-01 08:00:00]
:streak: 2
:longest streak: 2 [2025-12-13 08:00:00];[2025-12-14 08:00:00]
:period: Daily
:END:
- [2025-12-13 08:00:00]
- [2025-12-14 08:00:00]

* DONE 🧹 Clean
:PROPERTIES:
:created: [2025-12-01 08:00:00]
:streak: 1
:longest streak: 1 [2025-12-15 10:00:00];[2025-12-15 10:00:00]
:period: Weekly
:END:
- [2025-12-15 10:00:00]

`

var wantStats = Stats{Habits: 2, Daily: 1, Weekly: 1, Completions: 3}

// newTestManager returns a manager over a temp data dir whose clock advances
// one second per backup.
func newTestManager(t *testing.T, withData bool) (*Manager, string) {
	t.Helper()
	dataDir := t.TempDir()
	habitFile := filepath.Join(dataDir, "habits.org")
	if withData {
		require.NoError(t, os.WriteFile(habitFile, []byte(testHabits), 0600))
	}

	manager := NewManager(habitFile, filepath.Join(dataDir, "backups"), "1.2.0-test")
	clock := time.Date(2025, 12, 15, 14, 30, 22, 0, time.Local)
	manager.SetNowFunc(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	return manager, habitFile
}

func backupPath(habitFile, name string) string {
	return filepath.Join(filepath.Dir(habitFile), "backups", name)
}

func TestCreate(t *testing.T) {
	manager, habitFile := newTestManager(t, true)

	name, err := manager.Create()
	require.NoError(t, err)
	assert.Equal(t, "2025-12-15_143023.000", name)

	copied, err := os.ReadFile(filepath.Join(backupPath(habitFile, name), "habits.org"))
	require.NoError(t, err)
	assert.Equal(t, testHabits, string(copied))

	data, err := os.ReadFile(filepath.Join(backupPath(habitFile, name), ManifestFile))
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, ManifestVersion, manifest.Version)
	assert.Equal(t, "1.2.0-test", manifest.AppVersion)
	assert.Equal(t, "habits.org", manifest.HabitFile)
	assert.Equal(t, wantStats, manifest.Stats)
}

func TestCreateWithoutHabitFile(t *testing.T) {
	manager, _ := newTestManager(t, false)

	name, err := manager.Create()
	require.NoError(t, err)

	info, err := manager.GetBackup(name)
	require.NoError(t, err)
	assert.Equal(t, name, info.Name)
	assert.Equal(t, Stats{}, info.Stats)
}

func TestListNewestFirst(t *testing.T) {
	manager, habitFile := newTestManager(t, true)

	backups, err := manager.List()
	require.NoError(t, err)
	assert.Empty(t, backups)

	first, err := manager.Create()
	require.NoError(t, err)
	second, err := manager.Create()
	require.NoError(t, err)

	// Stray entries in the backup directory are ignored.
	require.NoError(t, os.MkdirAll(backupPath(habitFile, "not-a-backup"), 0700))
	require.NoError(t, os.WriteFile(backupPath(habitFile, "notes.txt"), nil, 0600))

	backups, err = manager.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second, backups[0].Name)
	assert.Equal(t, first, backups[1].Name)
	assert.Equal(t, wantStats, backups[0].Stats)
	assert.True(t, backups[0].CreatedAt.After(backups[1].CreatedAt))
}

func TestListWithoutManifest(t *testing.T) {
	manager, habitFile := newTestManager(t, true)
	name, err := manager.Create()
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(backupPath(habitFile, name), ManifestFile)))

	backups, err := manager.List()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, time.Date(2025, 12, 15, 14, 30, 23, 0, time.Local), backups[0].CreatedAt)
}

func TestRestore(t *testing.T) {
	manager, habitFile := newTestManager(t, true)

	name, err := manager.Create()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(habitFile, []byte("* TODO x Changed\n"), 0600))

	require.NoError(t, manager.Restore(name))

	data, err := os.ReadFile(habitFile)
	require.NoError(t, err)
	assert.Equal(t, testHabits, string(data))

	backups, err := manager.List()
	require.NoError(t, err)
	assert.Len(t, backups, 2, "restore keeps a safety backup of the replaced file")
}

func TestRestoreLatest(t *testing.T) {
	manager, habitFile := newTestManager(t, true)

	_, err := manager.RestoreLatest()
	assert.ErrorIs(t, err, ErrNoBackups)

	want, err := manager.Create()
	require.NoError(t, err)
	require.NoError(t, os.Remove(habitFile))

	name, err := manager.RestoreLatest()
	require.NoError(t, err)
	assert.Equal(t, want, name)
	assert.FileExists(t, habitFile)
}

func TestRestoreErrors(t *testing.T) {
	manager, habitFile := newTestManager(t, true)

	assert.ErrorIs(t, manager.Restore("nonexistent-backup"), ErrInvalidName)
	assert.ErrorIs(t, manager.Restore("../2025-12-15_143023.000"), ErrInvalidName)
	assert.ErrorIs(t, manager.Restore("2020-01-01_000000.000"), ErrNotFound)

	name, err := manager.Create()
	require.NoError(t, err)
	copyPath := filepath.Join(backupPath(habitFile, name), "habits.org")
	require.NoError(t, os.WriteFile(copyPath, []byte("* LATER x broken\n"), 0600))

	err = manager.Restore(name)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")

	data, err := os.ReadFile(habitFile)
	require.NoError(t, err)
	assert.Equal(t, testHabits, string(data), "a rejected restore leaves the habit file alone")
}

func TestDelete(t *testing.T) {
	manager, _ := newTestManager(t, true)

	name, err := manager.Create()
	require.NoError(t, err)
	require.NoError(t, manager.Delete(name))

	backups, err := manager.List()
	require.NoError(t, err)
	assert.Empty(t, backups)

	assert.ErrorIs(t, manager.Delete(name), ErrNotFound)
	assert.ErrorIs(t, manager.Delete("../escape"), ErrInvalidName)
}

func TestRemovedBackupDirIsNotFound(t *testing.T) {
	manager, habitFile := newTestManager(t, true)

	name, err := manager.Create()
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Dir(backupPath(habitFile, name))))

	_, err = manager.GetBackup(name)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, manager.Restore(name), ErrNotFound)
}

func TestPrune(t *testing.T) {
	manager, _ := newTestManager(t, true)

	var names []string
	for i := 0; i < 5; i++ {
		name, err := manager.Create()
		require.NoError(t, err)
		names = append(names, name)
	}

	deleted, err := manager.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	backups, err := manager.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, names[4], backups[0].Name)
	assert.Equal(t, names[3], backups[1].Name)

	deleted, err = manager.Prune(10)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = manager.Prune(-1)
	assert.Error(t, err)
}

func TestGetBackup(t *testing.T) {
	manager, _ := newTestManager(t, true)

	name, err := manager.Create()
	require.NoError(t, err)

	info, err := manager.GetBackup(name)
	require.NoError(t, err)
	assert.Equal(t, name, info.Name)
	assert.Equal(t, 3, info.Stats.Completions)

	_, err = manager.GetBackup("nonexistent")
	assert.Error(t, err)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		want    time.Time
		wantErr bool
	}{
		{name: "2025-12-15_143022.123", want: time.Date(2025, 12, 15, 14, 30, 22, 123e6, time.Local)},
		{name: "2025-12-15_143022", wantErr: true},
		{name: "2025-12-15_143022-123", wantErr: true},
		{name: "", wantErr: true},
		{name: "backups/2025-12-15_143022.123", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseName(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}
