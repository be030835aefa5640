// Package store keeps the chat state in three plain-text files.
//
// memory.txt holds one note per line, history.txt the chat log and
// personality.txt a single directive that is replaced on every update.
// There is no index, lock or schema; one command touches the files at a time.
package store

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/floatai/internal/logger"
)

// File names inside the data directory
const (
	MemoryFile      = "memory.txt"
	HistoryFile     = "history.txt"
	PersonalityFile = "personality.txt"
)

var storeLog = logger.WithPrefix("store")

// Store groups the three state files under one directory
type Store struct {
	dir         string
	Memory      *File
	History     *File
	Personality *File
}

// Open prepares dir and returns the store. Failing to create the directory is
// the one unrecoverable startup error.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	storeLog.Debug("data directory %s", dir)

	return &Store{
		dir:         dir,
		Memory:      NewFile(dir, MemoryFile),
		History:     NewFile(dir, HistoryFile),
		Personality: NewFile(dir, PersonalityFile),
	}, nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// ClearAll truncates history and memory. Personality is kept. Both files are
// checked for write access first, so a failure leaves both untouched.
func (s *Store) ClearAll() error {
	for _, f := range []*File{s.History, s.Memory} {
		if err := f.checkWritable("clear"); err != nil {
			return err
		}
	}
	if err := s.History.Truncate(); err != nil {
		return err
	}
	return s.Memory.Truncate()
}
