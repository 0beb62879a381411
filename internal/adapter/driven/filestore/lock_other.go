//go:build !unix

package filestore

import "context"

// Lock is a no-op where advisory file locks are unavailable.
func (s *Store) Lock(ctx context.Context, _ string) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func() error { return nil }, nil
}
