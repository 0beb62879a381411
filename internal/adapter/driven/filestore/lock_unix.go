//go:build unix

package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ericfisherdev/passenger/internal/domain/model"
)

// Lock takes an exclusive advisory lock on the owner's lock file. It fails
// immediately with model.KindConflict when another process holds it.
func (s *Store) Lock(ctx context.Context, owner string) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	path := s.lockPath(owner)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, FileMode)
	if err != nil {
		return nil, fmt.Errorf("open lock %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, model.NewErrorf(model.KindConflict, "vault for %q is locked by another process", owner)
		}
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return func() error {
		if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
			_ = f.Close()
			return fmt.Errorf("unlock %s: %w", path, err)
		}
		return f.Close()
	}, nil
}
