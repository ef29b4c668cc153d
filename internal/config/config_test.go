package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateEnv points XDG_CONFIG_HOME at a temp dir and clears HABITS_*
// overrides. It returns the habits config directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	for _, key := range []string{EnvDataDir, EnvFile, EnvStorageKind, EnvLogLevel, EnvLogFile} {
		t.Setenv(key, "")
	}
	dir := filepath.Join(tempDir, "habits")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Storage.Kind != "org" {
		t.Errorf("Storage.Kind = %q, want org", cfg.Storage.Kind)
	}
	if cfg.Storage.File != "habits.org" {
		t.Errorf("Storage.File = %q, want habits.org", cfg.Storage.File)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Error("UX.ConfirmDeletions should default to true")
	}
	if cfg.Backup.Keep != 10 {
		t.Errorf("Backup.Keep = %d, want 10", cfg.Backup.Keep)
	}
	if cfg.Theme.Primary == "" {
		t.Error("Theme.Primary should have a default value")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#7C3AED" {
		t.Errorf("Theme.Primary = %q, want #7C3AED", cfg.Theme.Primary)
	}
	if cfg.UX.RefreshSeconds != 60 {
		t.Errorf("UX.RefreshSeconds = %d, want 60", cfg.UX.RefreshSeconds)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := isolateEnv(t)
	writeConfig(t, dir, `
data_dir: /custom/data
storage:
  file: mine.org
log:
  level: debug
theme:
  primary: "#FF0000"
keys:
  complete: "x"
ux:
  refresh_seconds: 5
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if got := cfg.HabitFile(); got != filepath.Join("/custom/data", "mine.org") {
		t.Errorf("HabitFile() = %q", got)
	}
	if cfg.Storage.Kind != "org" {
		t.Errorf("Storage.Kind = %q, want default org", cfg.Storage.Kind)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.File != "habits.log" {
		t.Errorf("Log.File = %q, want default habits.log", cfg.Log.File)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want #6B7280", cfg.Theme.Muted)
	}
	if cfg.Keys.Complete != "x" {
		t.Errorf("Keys.Complete = %q, want x", cfg.Keys.Complete)
	}
	if cfg.RefreshInterval() != 5*time.Second {
		t.Errorf("RefreshInterval() = %v, want 5s", cfg.RefreshInterval())
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolateEnv(t)
	writeConfig(t, dir, "storage: [unclosed\n")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme: ThemeConfig{
			Primary: "#CUSTOM",
		},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#CUSTOM" {
		t.Errorf("Theme.Primary = %q, want #CUSTOM", base.Theme.Primary)
	}
	if base.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want #10B981", base.Theme.Accent)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	dir := isolateEnv(t)
	writeConfig(t, dir, `
theme:
  primary: "#FF0000"
storage:
  strict: true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Storage.Strict {
		t.Errorf("Storage.Strict = %v, want true", cfg.Storage.Strict)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
	if cfg.Backup.Keep != 10 {
		t.Errorf("Backup.Keep = %d, want 10", cfg.Backup.Keep)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	dir := isolateEnv(t)
	writeConfig(t, dir, `
ux:
  confirm_deletions: false
  autosave: true
backup:
  keep: 0
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.Autosave {
		t.Errorf("UX.Autosave = %v, want true", cfg.UX.Autosave)
	}
	if cfg.Backup.Keep != 0 {
		t.Errorf("Backup.Keep = %d, want 0", cfg.Backup.Keep)
	}
}

func TestLoad_DotenvAndEnvOverrides(t *testing.T) {
	dir := isolateEnv(t)
	writeConfig(t, dir, `
data_dir: /from/yaml
log:
  level: info
`)
	dotenv := "HABITS_DATA_DIR=/from/dotenv\nHABITS_LOG_LEVEL=error\nHABITS_FILE=dot.org\n"
	if err := os.WriteFile(filepath.Join(dir, "habits.env"), []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/from/dotenv" {
		t.Errorf("DataDir = %q, want dotenv value", cfg.DataDir)
	}
	if cfg.Storage.File != "dot.org" {
		t.Errorf("Storage.File = %q, want dot.org", cfg.Storage.File)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want process env to win", cfg.Log.Level)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvStorageKind: "sqlite",
		EnvLogFile:     "/var/log/habits.log",
	}
	cfg.applyEnv(func(k string) string { return env[k] }, nil)

	if cfg.Storage.Kind != "sqlite" {
		t.Errorf("Storage.Kind = %q, want sqlite", cfg.Storage.Kind)
	}
	if cfg.LogFile() != "/var/log/habits.log" {
		t.Errorf("LogFile() = %q, want absolute path kept", cfg.LogFile())
	}
	if cfg.Storage.File != "habits.org" {
		t.Errorf("Storage.File = %q, want untouched default", cfg.Storage.File)
	}
}

func TestGetDataDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{name: "absolute", dataDir: "/data/habits", want: "/data/habits"},
		{name: "tilde", dataDir: "~", want: home},
		{name: "tilde prefix", dataDir: "~/habits", want: filepath.Join(home, "habits")},
		{name: "empty uses default", dataDir: "", want: filepath.Join(home, ".habits")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: tt.dataDir}
			if got := cfg.GetDataDir(); got != tt.want {
				t.Errorf("GetDataDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/d"

	if got := cfg.HabitFile(); got != filepath.Join("/d", "habits.org") {
		t.Errorf("HabitFile() = %q", got)
	}
	if got := cfg.LogFile(); got != filepath.Join("/d", "habits.log") {
		t.Errorf("LogFile() = %q", got)
	}
	if got := cfg.BackupDir(); got != filepath.Join("/d", "backups") {
		t.Errorf("BackupDir() = %q", got)
	}

	cfg.UX.RefreshSeconds = 0
	if cfg.RefreshInterval() != time.Minute {
		t.Errorf("RefreshInterval() = %v, want 1m fallback", cfg.RefreshInterval())
	}
}

func TestSave(t *testing.T) {
	dir := isolateEnv(t)

	cfg := Default()
	cfg.DataDir = "/saved/data"
	cfg.UX.ConfirmDeletions = false
	if err := cfg.Save(""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/data" {
		t.Errorf("DataDir = %q, want /saved/data", loaded.DataDir)
	}
	// omitempty drops false booleans on save, so the default comes back.
	if !loaded.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want default true after omitempty round trip", loaded.UX.ConfirmDeletions)
	}
}
