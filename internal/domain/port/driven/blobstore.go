package driven

import "context"

// BlobStore defines the driven port for opaque per-owner storage. Blobs are
// already encrypted when they reach this port.
type BlobStore interface {
	// Read returns the owner's blob, or (nil, nil) when nothing is stored.
	Read(ctx context.Context, owner string) ([]byte, error)

	// Write replaces the owner's blob. Implementations must never leave a
	// partially written blob behind.
	Write(ctx context.Context, owner string, blob []byte) error
}

// Locker is implemented by blob stores that can serialize access across
// processes.
type Locker interface {
	// Lock takes an exclusive, non-blocking lock for owner. A lock held
	// elsewhere is reported as model.KindConflict.
	Lock(ctx context.Context, owner string) (release func() error, err error)
}
