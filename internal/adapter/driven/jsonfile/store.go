// Package jsonfile implements the BinStore port on top of a single JSON file.
package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/binvault/internal/adapter/driven/bincodec"
	"github.com/ericfisherdev/binvault/internal/domain/model"
	"github.com/ericfisherdev/binvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BinStore = (*Store)(nil)

// Store reads and writes the whole bin collection as one JSON array on disk.
// Appends are serialized within the process; separate processes sharing the
// same file are not coordinated.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by the file at path. The file does not need
// to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Name identifies the backend in logs and metrics.
func (s *Store) Name() string { return "local" }

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Read returns every stored bin. A missing or empty file is an empty
// collection; malformed content wraps driven.ErrCorruptStore.
func (s *Store) Read(_ context.Context) ([]model.Bin, error) {
	c, err := s.readCollection()
	if err != nil {
		return nil, err
	}
	return c.Bins(), nil
}

// Write replaces the file with the given collection. The new content becomes
// visible in a single rename, so readers never observe a partial file.
func (s *Store) Write(_ context.Context, bins []model.Bin) error {
	data, err := bincodec.Encode(bins)
	if err != nil {
		return err
	}
	return s.writeFile(data)
}

// List returns every stored bin in insertion order.
func (s *Store) List(ctx context.Context) ([]model.Bin, error) {
	return s.Read(ctx)
}

// Append reads the collection, adds bin at the end, and writes it back.
// Existing records are written back as they were read.
func (s *Store) Append(_ context.Context, bin model.Bin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.readCollection()
	if err != nil {
		return err
	}
	if err := c.Append(bin); err != nil {
		return err
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}
	return s.writeFile(data)
}

func (s *Store) readCollection() (*bincodec.Collection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return bincodec.Decode(data, s.path)
}

func (s *Store) writeFile(data []byte) error {
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
