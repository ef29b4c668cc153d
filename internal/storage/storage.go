// Package storage persists habits. The only registered kind is the org
// outline format.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"habits/internal/fsutil"
	"habits/internal/habit"
)

const dataFilePerm os.FileMode = 0600

// Storage reads and writes a whole habit collection.
type Storage interface {
	Read() ([]*habit.Habit, error)
	Save(habits []*habit.Habit) error
	// Path is the file backing the store.
	Path() string
}

// Kind names a storage implementation.
type Kind string

const KindOrg Kind = "org"

type kindInfo struct {
	ext  string
	open func(path string, o options) Storage
}

var kinds = map[Kind]kindInfo{
	KindOrg: {
		ext:  ".org",
		open: func(path string, o options) Storage { return &OrgStorage{path: path, opts: o} },
	},
}

// Kinds returns the registered storage kinds, sorted.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extension returns the file extension required by kind.
func Extension(kind Kind) (string, error) {
	info, ok := kinds[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return info.ext, nil
}

// Open returns the store of the given kind backed by path. Nothing is read
// or written yet.
func Open(kind Kind, path string, opts ...Option) (Storage, error) {
	info, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if filepath.Ext(path) != info.ext {
		return nil, fmt.Errorf("%w: expected %s, got: %s", ErrWrongExtension, kind, path)
	}
	return info.open(path, buildOptions(opts)), nil
}

// OrgStorage keeps habits in a single org outline file.
type OrgStorage struct {
	path string
	opts options
}

// NewOrg is Open(KindOrg, path, opts...).
func NewOrg(path string, opts ...Option) (*OrgStorage, error) {
	s, err := Open(KindOrg, path, opts...)
	if err != nil {
		return nil, err
	}
	return s.(*OrgStorage), nil
}

func (s *OrgStorage) Path() string {
	return s.path
}

// Read decodes the file. A missing file is an empty collection.
func (s *OrgStorage) Read() ([]*habit.Habit, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.opts.logger.Debug("habit file does not exist yet", "path", s.path)
			return []*habit.Habit{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	habits, err := Decode(f, WithIncompletePolicy(s.opts.policy), WithLogger(s.opts.logger))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.opts.logger.Debug("read habits", "path", s.path, "count", len(habits))
	return habits, nil
}

// Save overwrites the file with habits. The previous contents are kept as a
// best-effort .bak next to it.
func (s *OrgStorage) Save(habits []*habit.Habit) error {
	var buf bytes.Buffer
	if err := Encode(&buf, habits); err != nil {
		return err
	}
	if fsutil.KeepBackup(s.path, dataFilePerm) {
		s.opts.logger.Debug("kept previous habit file", "path", s.path+fsutil.BackupSuffix)
	}

	if err := fsutil.WriteFile(s.path, buf.Bytes(), dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.opts.logger.Debug("saved habits", "path", s.path, "count", len(habits))
	return nil
}
