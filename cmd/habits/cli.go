package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"habits/internal/config"
	"habits/internal/logging"
	"habits/internal/storage"
	"habits/internal/tracker"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// cli holds the state shared by every command: flags, configuration, the
// logger and a lazily loaded tracker.
type cli struct {
	configPath string
	filePath   string

	cfg     *config.Config
	logger  *log.Logger
	logFile io.Closer
	tracker *tracker.Tracker

	// isInteractive reports whether prompts and the TUI can be shown.
	isInteractive func() bool
	// trackerOpts are appended when the tracker is created.
	trackerOpts []tracker.Option
}

func newCLI() *cli {
	return &cli{
		isInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
}

// setup loads the configuration and opens the log file. It runs before
// every command.
func (c *cli) setup() error {
	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if c.filePath != "" {
		abs, err := filepath.Abs(c.filePath)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", c.filePath, err)
		}
		cfg.Storage.File = abs
	}
	c.cfg = cfg

	// The TUI owns the terminal, so logs go to a file.
	f, err := logging.OpenFile(cfg.LogFile())
	if err != nil {
		c.logger = logging.New(logging.Options{Level: cfg.Log.Level, Prefix: "habits"})
		c.logger.Warn("logging to stderr", "err", err)
		return nil
	}
	c.logFile = f
	c.logger = logging.New(logging.Options{Writer: f, Level: cfg.Log.Level, Prefix: "habits"})
	return nil
}

// openStore opens the configured habit file.
func (c *cli) openStore() (storage.Storage, error) {
	return c.openStoreAt(c.cfg.HabitFile())
}

// openStoreAt opens path with the configured storage kind and policy.
func (c *cli) openStoreAt(path string) (storage.Storage, error) {
	opts := []storage.Option{storage.WithLogger(c.logger)}
	if c.cfg.Storage.Strict {
		opts = append(opts, storage.WithIncompletePolicy(storage.RejectIncomplete))
	}
	return storage.Open(storage.Kind(c.cfg.Storage.Kind), path, opts...)
}

func (c *cli) newTrackerOpts() []tracker.Option {
	return append([]tracker.Option{tracker.WithLogger(c.logger)}, c.trackerOpts...)
}

// loadTracker opens the habit file and reads it once.
func (c *cli) loadTracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	tr, err := tracker.Load(store, c.newTrackerOpts()...)
	if err != nil {
		return nil, err
	}
	c.tracker = tr
	return tr, nil
}

func (c *cli) close() {
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}
