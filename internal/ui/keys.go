// Package ui provides the terminal user interface for the habits app.
// This file defines the key bindings. Every binding except force quit can
// be overridden from the keys section of the config.
package ui

import (
	"strings"

	"habits/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated key list from the config. An empty
// list means the defaults.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// keyNames are the help labels of keys whose names read poorly.
var keyNames = map[string]string{
	" ":     "space",
	"up":    "↑",
	"down":  "↓",
	"left":  "←",
	"right": "→",
}

// bind creates a binding from a configured key list. The help label is the
// first bound key so custom keys show up in the help bar.
func bind(custom, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	label := ""
	if len(keys) > 0 {
		label = keys[0]
		if name, ok := keyNames[label]; ok {
			label = name
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// =============================================================================
// Global Keys (available on every page)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Save     key.Binding
	Reload   key.Binding
	NextPage key.Binding
	Info     key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:     bind(cfg.Quit, "save & quit", "q"),
		Save:     bind(cfg.Save, "save", "s"),
		Reload:   bind(cfg.Reload, "reload", "o"),
		NextPage: bind(cfg.NextPage, "analytics", "tab"),
		Info:     bind(cfg.Info, "info", " "),
	}
}

// forceQuitKey leaves without saving. It is not configurable so a failing
// save can never trap the user.
var forceQuitKey = key.NewBinding(
	key.WithKeys("ctrl+c"),
	key.WithHelp("ctrl+c", "quit without saving"),
)

// =============================================================================
// Navigation Keys
// =============================================================================

// NavigationKeyMap defines keys for moving around the habit table.
type NavigationKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	SwitchColumn key.Binding
}

// DefaultNavigationKeyMap returns the default navigation key bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:           bind(cfg.Up, "up", "k", "up"),
		Down:         bind(cfg.Down, "down", "j", "down"),
		SwitchColumn: bind(cfg.SwitchColumn, "column", "h", "l", "left", "right"),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: bind(cfg.Confirm, "confirm", "enter"),
		Cancel:  bind(cfg.Cancel, "cancel", "esc"),
	}
}

// =============================================================================
// Home Page Keys
// =============================================================================

// HomeKeyMap defines keys for the TODO/DONE table.
type HomeKeyMap struct {
	Complete key.Binding
	Add      key.Binding
	Delete   key.Binding
	Filter   key.Binding
	NavigationKeyMap
}

// DefaultHomeKeyMap returns the default home page key bindings.
func DefaultHomeKeyMap() HomeKeyMap {
	return NewHomeKeyMap(&config.KeysConfig{})
}

// NewHomeKeyMap creates home page key bindings from config.
func NewHomeKeyMap(cfg *config.KeysConfig) HomeKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return HomeKeyMap{
		Complete: bind(cfg.Complete, "complete", "enter"),
		Add:      bind(cfg.Add, "add", "+", "="),
		Delete:   bind(cfg.Delete, "delete", "-", "_"),
		Filter:   bind(cfg.Filter, "filter", "f"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the home page (implements help.KeyMap).
func (k HomeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Add, k.Delete, k.Filter, k.SwitchColumn}
}

// FullHelp returns the full help for the home page (implements help.KeyMap).
func (k HomeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Complete, k.Add, k.Delete, k.Filter},
		{k.Up, k.Down, k.SwitchColumn},
	}
}
