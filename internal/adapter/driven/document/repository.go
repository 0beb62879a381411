// Package document implements driven.VaultRepository: it serializes the vault
// document to JSON, seals it with the aesgcm codec, armors the result as
// base64 text, and hands the blob to a driven.BlobStore.
package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ericfisherdev/passenger/internal/adapter/driven/aesgcm"
	"github.com/ericfisherdev/passenger/internal/domain/model"
	"github.com/ericfisherdev/passenger/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.VaultRepository = (*Repository)(nil)

// Repository is the encrypted-document implementation of the VaultRepository
// port. The derived key lives only as long as the Repository.
type Repository struct {
	blobs  driven.BlobStore
	key    aesgcm.Key
	schema *jsonschema.Schema
}

// NewRepository derives the document key from secret. A missing secret is
// reported as model.KindConfiguration.
func NewRepository(blobs driven.BlobStore, secret string) (*Repository, error) {
	key, err := aesgcm.Derive(secret)
	if err != nil {
		return nil, err
	}
	s, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Repository{blobs: blobs, key: key, schema: s}, nil
}

// Load reads, decrypts and decodes the owner's document.
func (r *Repository) Load(ctx context.Context, owner string) (model.VaultDocument, error) {
	blob, err := r.blobs.Read(ctx, owner)
	if err != nil {
		return model.VaultDocument{}, model.NewErrorf(model.KindStorage, "read vault for %q", owner).WithCause(err)
	}
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 {
		return model.VaultDocument{}, nil
	}

	sealed := make([]byte, base64.StdEncoding.DecodedLen(len(blob)))
	n, err := base64.StdEncoding.Decode(sealed, blob)
	if err != nil {
		return model.VaultDocument{}, model.NewError(model.KindIntegrity, "vault blob is not valid base64").WithCause(err)
	}

	plaintext, err := aesgcm.Decrypt(r.key, sealed[:n])
	if err != nil {
		return model.VaultDocument{}, err
	}
	return r.decode(plaintext)
}

// Save encodes, encrypts and writes doc as the owner's document.
func (r *Repository) Save(ctx context.Context, owner string, doc model.VaultDocument) error {
	plaintext, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal vault: %w", err)
	}

	sealed, err := aesgcm.Encrypt(r.key, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt vault: %w", err)
	}

	armored := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(armored, sealed)

	if err := r.blobs.Write(ctx, owner, armored); err != nil {
		return model.NewErrorf(model.KindStorage, "write vault for %q", owner).WithCause(err)
	}
	return nil
}

// Lock delegates to the blob store when it can lock; otherwise access is
// unserialized and release is a no-op.
func (r *Repository) Lock(ctx context.Context, owner string) (func() error, error) {
	if l, ok := r.blobs.(driven.Locker); ok {
		return l.Lock(ctx, owner)
	}
	return func() error { return nil }, nil
}

func (r *Repository) decode(plaintext []byte) (model.VaultDocument, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(plaintext))
	if err != nil {
		return model.VaultDocument{}, model.NewError(model.KindDeserialization, "vault document is not valid JSON").WithCause(err)
	}
	if err := r.schema.Validate(inst); err != nil {
		return model.VaultDocument{}, model.NewError(model.KindDeserialization, "vault document has an unexpected shape").WithCause(err)
	}

	var doc model.VaultDocument
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return model.VaultDocument{}, model.NewError(model.KindDeserialization, "decode vault document").WithCause(err)
	}
	if err := checkUnique(doc); err != nil {
		return model.VaultDocument{}, err
	}
	return doc, nil
}

// checkUnique rejects documents whose entry ids or constant keys repeat.
func checkUnique(doc model.VaultDocument) error {
	ids := make(map[string]struct{}, len(doc.Entries))
	for _, e := range doc.Entries {
		if _, dup := ids[e.ID]; dup {
			return model.NewErrorf(model.KindDeserialization, "duplicate entry id %q", e.ID)
		}
		ids[e.ID] = struct{}{}
	}
	keys := make(map[string]struct{}, len(doc.Constants))
	for _, c := range doc.Constants {
		if _, dup := keys[c.Key]; dup {
			return model.NewErrorf(model.KindDeserialization, "duplicate constant key %q", c.Key)
		}
		keys[c.Key] = struct{}{}
	}
	return nil
}
