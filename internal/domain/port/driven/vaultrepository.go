package driven

import (
	"context"

	"github.com/ericfisherdev/passenger/internal/domain/model"
)

// VaultRepository defines the driven port for whole-document vault
// persistence. The adapter layer is responsible for serialization and
// encryption; this interface operates on plaintext documents at the domain
// boundary.
type VaultRepository interface {
	// Load returns the owner's document. An absent or empty blob yields an
	// empty, unregistered document and no error. Authentication failure is
	// reported as model.KindIntegrity, a malformed document as
	// model.KindDeserialization.
	Load(ctx context.Context, owner string) (model.VaultDocument, error)

	// Save replaces the owner's stored document in a single write.
	Save(ctx context.Context, owner string, doc model.VaultDocument) error

	// Lock acquires whatever exclusive access the backing store offers for
	// owner. The returned release func must be called exactly once.
	Lock(ctx context.Context, owner string) (release func() error, err error)
}
