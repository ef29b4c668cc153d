// Package config handles configuration loading and defaults for the habits app.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/habits/config.yaml)
// and can be overridden by HABITS_* environment variables or a habits.env file
// next to it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"habits/internal/fsutil"
)

// Environment variables that override the file configuration.
const (
	EnvDataDir     = "HABITS_DATA_DIR"
	EnvFile        = "HABITS_FILE"
	EnvStorageKind = "HABITS_STORAGE_KIND"
	EnvLogLevel    = "HABITS_LOG_LEVEL"
	EnvLogFile     = "HABITS_LOG_FILE"
)

const (
	appName     = "habits"
	configFile  = "config.yaml"
	dotenvFile  = "habits.env"
	defaultKind = "org"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.habits)
	DataDir string `yaml:"data_dir,omitempty"`

	// Storage selects the habit file and how it is parsed
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Log configures the diagnostic log
	Log LogConfig `yaml:"log,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Backup configures backups of the habit file
	Backup BackupConfig `yaml:"backup,omitempty"`
}

// StorageConfig defines where habits are kept.
type StorageConfig struct {
	// Kind is the storage format; only "org" is supported
	Kind string `yaml:"kind,omitempty"`

	// File is the habit file, relative to DataDir unless absolute
	File string `yaml:"file,omitempty"`

	// Strict rejects incomplete records instead of skipping them
	Strict bool `yaml:"strict,omitempty"`
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// File is the log file, relative to DataDir unless absolute
	File string `yaml:"file,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q"
	Save     string `yaml:"save,omitempty"`      // default: "s"
	Reload   string `yaml:"reload,omitempty"`    // default: "o"
	NextPage string `yaml:"next_page,omitempty"` // default: "tab"
	Info     string `yaml:"info,omitempty"`      // default: " " (space)

	// Navigation keys
	Up           string `yaml:"up,omitempty"`            // default: "k,up"
	Down         string `yaml:"down,omitempty"`          // default: "j,down"
	SwitchColumn string `yaml:"switch_column,omitempty"` // default: "h,l,left,right"

	// Habit keys
	Complete string `yaml:"complete,omitempty"` // default: "enter"
	Add      string `yaml:"add,omitempty"`      // default: "+,="
	Delete   string `yaml:"delete,omitempty"`   // default: "-,_"
	Filter   string `yaml:"filter,omitempty"`   // default: "f"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting habits
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// Autosave writes the habit file after every change
	Autosave bool `yaml:"autosave,omitempty"` // default: false

	// RefreshSeconds is how often the TUI re-checks period rollover
	RefreshSeconds int `yaml:"refresh_seconds,omitempty"` // default: 60
}

// BackupConfig defines backup retention.
type BackupConfig struct {
	// Keep is how many backups to retain; 0 keeps all
	Keep int `yaml:"keep,omitempty"` // default: 10
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Kind:   defaultKind,
			File:   "habits.org",
			Strict: false,
		},
		Log: LogConfig{
			Level: "warn",
			File:  "habits.log",
		},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions: true,
			Autosave:         false,
			RefreshSeconds:   60,
		},
		Backup: BackupConfig{
			Keep: 10,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// Dir returns the configuration directory path (XDG compliant).
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DefaultPath returns the path to the config file.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// Load reads configuration from the default path, then applies the dotenv
// file and environment overrides.
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads configuration from path, merging with defaults, then applies
// the habits.env file next to it and the process environment.
// A missing config file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	var dotenv map[string]string
	if path != "" {
		envPath := filepath.Join(filepath.Dir(path), dotenvFile)
		m, err := godotenv.Read(envPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", envPath, err)
		}
		dotenv = m
	}
	cfg.applyEnv(os.Getenv, dotenv)

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	c.mergeFromYAML(&userCfg, &doc)
	return nil
}

// applyEnv overrides settings from the environment, falling back to the
// dotenv values. The process environment wins.
func (c *Config) applyEnv(getenv func(string) string, dotenv map[string]string) {
	lookup := func(key string) string {
		return coalesce(getenv(key), dotenv[key])
	}
	c.DataDir = coalesce(lookup(EnvDataDir), c.DataDir)
	c.Storage.File = coalesce(lookup(EnvFile), c.Storage.File)
	c.Storage.Kind = coalesce(lookup(EnvStorageKind), c.Storage.Kind)
	c.Log.Level = coalesce(lookup(EnvLogLevel), c.Log.Level)
	c.Log.File = coalesce(lookup(EnvLogFile), c.Log.File)
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	c.DataDir = coalesce(other.DataDir, c.DataDir)

	c.Storage.Kind = coalesce(other.Storage.Kind, c.Storage.Kind)
	c.Storage.File = coalesce(other.Storage.File, c.Storage.File)

	c.Log.Level = coalesce(other.Log.Level, c.Log.Level)
	c.Log.File = coalesce(other.Log.File, c.Log.File)

	c.Theme.Primary = coalesce(other.Theme.Primary, c.Theme.Primary)
	c.Theme.Accent = coalesce(other.Theme.Accent, c.Theme.Accent)
	c.Theme.Muted = coalesce(other.Theme.Muted, c.Theme.Muted)
	c.Theme.Background = coalesce(other.Theme.Background, c.Theme.Background)
	c.Theme.Text = coalesce(other.Theme.Text, c.Theme.Text)

	k, o := &c.Keys, &other.Keys
	k.Quit = coalesce(o.Quit, k.Quit)
	k.Save = coalesce(o.Save, k.Save)
	k.Reload = coalesce(o.Reload, k.Reload)
	k.NextPage = coalesce(o.NextPage, k.NextPage)
	k.Info = coalesce(o.Info, k.Info)
	k.Up = coalesce(o.Up, k.Up)
	k.Down = coalesce(o.Down, k.Down)
	k.SwitchColumn = coalesce(o.SwitchColumn, k.SwitchColumn)
	k.Complete = coalesce(o.Complete, k.Complete)
	k.Add = coalesce(o.Add, k.Add)
	k.Delete = coalesce(o.Delete, k.Delete)
	k.Filter = coalesce(o.Filter, k.Filter)
	k.Confirm = coalesce(o.Confirm, k.Confirm)
	k.Cancel = coalesce(o.Cancel, k.Cancel)

	if other.UX.RefreshSeconds > 0 {
		c.UX.RefreshSeconds = other.UX.RefreshSeconds
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Fall back to conservative behavior if we can't inspect presence.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	// Booleans and zero-able ints only when present in YAML.
	if yamlHasPath(doc, "storage", "strict") {
		c.Storage.Strict = other.Storage.Strict
	}
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "autosave") {
		c.UX.Autosave = other.UX.Autosave
	}
	if yamlHasPath(doc, "backup", "keep") && other.Backup.Keep >= 0 {
		c.Backup.Keep = other.Backup.Keep
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to path, or to DefaultPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}

	return fsutil.WriteFile(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// HabitFile returns the resolved path of the habit file.
func (c *Config) HabitFile() string {
	return c.resolve(c.Storage.File)
}

// LogFile returns the resolved path of the log file.
func (c *Config) LogFile() string {
	return c.resolve(c.Log.File)
}

// BackupDir returns the directory holding habit file backups.
func (c *Config) BackupDir() string {
	return filepath.Join(c.GetDataDir(), "backups")
}

// RefreshInterval returns the rollover check interval for the TUI.
func (c *Config) RefreshInterval() time.Duration {
	if c.UX.RefreshSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.UX.RefreshSeconds) * time.Second
}

func (c *Config) resolve(p string) string {
	p = expandHome(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.GetDataDir(), p)
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err == nil {
			trimmed := strings.TrimPrefix(p, "~/")
			trimmed = strings.TrimPrefix(trimmed, `~\`)
			return filepath.Join(home, trimmed)
		}
	}
	return p
}
