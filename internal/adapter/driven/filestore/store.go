// Package filestore keeps one armored vault blob per owner in a directory on
// the local filesystem.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/passenger/internal/domain/port/driven"
)

const (
	// FileMode is applied to every vault and lock file.
	FileMode os.FileMode = 0o600
	// DirMode is applied to the data directory when it is created.
	DirMode os.FileMode = 0o700

	vaultExt = ".bus"
	lockExt  = ".lock"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.BlobStore = (*Store)(nil)
	_ driven.Locker    = (*Store)(nil)
)

// Store is a directory of <owner>.bus files. Owner names are path-escaped so
// any owner string maps to a single file inside the directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the per-user configuration directory for passenger.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "passenger"), nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the vault file for owner.
func (s *Store) Path(owner string) string {
	return filepath.Join(s.dir, url.PathEscape(owner)+vaultExt)
}

func (s *Store) lockPath(owner string) string {
	return filepath.Join(s.dir, url.PathEscape(owner)+lockExt)
}

// Read returns the stored blob, or nil when the owner has no vault yet.
func (s *Store) Read(ctx context.Context, owner string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(owner))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path(owner), err)
	}
	return data, nil
}

// Write replaces the owner's blob atomically: readers see either the previous
// file or the new one, never a partial write.
func (s *Store) Write(ctx context.Context, owner string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	path := s.Path(owner)
	if err := atomic.WriteFile(path, bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, FileMode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, DirMode); err != nil {
		return fmt.Errorf("create data dir %s: %w", s.dir, err)
	}
	return nil
}
