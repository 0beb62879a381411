package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/passenger/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BlobStore = (*VaultBlobRepo)(nil)

// VaultBlobRepo is the SQLite implementation of the BlobStore port. Each
// owner's armored document is one row; the blob is opaque to this layer.
type VaultBlobRepo struct {
	db *DB
}

// NewVaultBlobRepo creates a new VaultBlobRepo.
func NewVaultBlobRepo(db *DB) *VaultBlobRepo {
	return &VaultBlobRepo{db: db}
}

// Read returns the stored blob for owner, or nil if there is none.
func (r *VaultBlobRepo) Read(ctx context.Context, owner string) ([]byte, error) {
	const query = `SELECT blob FROM vaults WHERE owner = ?`

	var blob string
	err := r.db.Reader.QueryRowContext(ctx, query, owner).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vault %q: %w", owner, err)
	}
	return []byte(blob), nil
}

// Write inserts or replaces the blob for owner.
func (r *VaultBlobRepo) Write(ctx context.Context, owner string, blob []byte) error {
	const query = `
		INSERT INTO vaults (owner, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.Writer.ExecContext(ctx, query, owner, string(blob)); err != nil {
		return fmt.Errorf("write vault %q: %w", owner, err)
	}
	return nil
}
