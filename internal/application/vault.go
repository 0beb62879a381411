package application

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ericfisherdev/passenger/internal/domain/model"
	"github.com/ericfisherdev/passenger/internal/domain/port/driven"
	"github.com/ericfisherdev/passenger/internal/domain/strength"
	"github.com/ericfisherdev/passenger/internal/logging"
)

// maxIDAttempts bounds id regeneration when the generator collides with a
// live entry.
const maxIDAttempts = 16

// Option configures a Vault.
type Option func(*Vault)

// WithClock replaces the time source used for entry and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) { v.now = now }
}

// WithIDGenerator replaces the entry id generator.
func WithIDGenerator(gen func() string) Option {
	return func(v *Vault) { v.newID = gen }
}

// WithLogger sets the logger for operation records.
func WithLogger(l *slog.Logger) Option {
	return func(v *Vault) { v.logger = l }
}

// Vault is the credential store for one owner. It is the only mutator of the
// owner's document: every operation validates, builds the next document on a
// copy, persists it, and only then makes it current. A Vault is not safe for
// concurrent use.
type Vault struct {
	owner  string
	repo   driven.VaultRepository
	index  driven.BreachIndex
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	release func() error
	closed  bool
	doc     model.VaultDocument
}

// OpenVault locks and loads the owner's document. An absent document opens as
// an empty, unregistered vault.
func OpenVault(ctx context.Context, owner string, repo driven.VaultRepository, index driven.BreachIndex, opts ...Option) (*Vault, error) {
	if owner == "" {
		return nil, model.MissingField("owner")
	}

	v := &Vault{
		owner:  owner,
		repo:   repo,
		index:  index,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}

	ctx = v.opContext(ctx, "open")

	release, err := repo.Lock(ctx, owner)
	if err != nil {
		return nil, err
	}

	doc, err := repo.Load(ctx, owner)
	if err != nil {
		_ = release()
		return nil, err
	}
	if doc.IsRegistered() && doc.Owner != owner {
		_ = release()
		return nil, model.NewErrorf(model.KindAuthorization, "vault document belongs to %q", doc.Owner)
	}

	v.release = release
	v.doc = doc
	v.logger.DebugContext(ctx, "vault opened", "registered", doc.IsRegistered(), "entries", len(doc.Entries))
	return v, nil
}

// Close releases the owner lock. Further mutations fail.
func (v *Vault) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	if v.release == nil {
		return nil
	}
	return v.release()
}

// Owner returns the owner the vault was opened for.
func (v *Vault) Owner() string {
	return v.owner
}

// IsRegistered reports whether the document has been claimed.
func (v *Vault) IsRegistered() bool {
	return v.doc.IsRegistered()
}

// Credentials returns the stored owner and master passphrase for an
// authorization gate. Both are empty on an unregistered vault.
func (v *Vault) Credentials() model.Credentials {
	return model.Credentials{Owner: v.doc.Owner, MasterPassphrase: v.doc.MasterPassphrase}
}

// Register claims the vault for owner with the given master passphrase.
func (v *Vault) Register(ctx context.Context, owner, master string) error {
	ctx = v.opContext(ctx, "register")

	switch {
	case owner == "":
		return model.MissingField("owner")
	case master == "":
		return model.MissingField("masterPassphrase")
	case owner != v.owner:
		return &model.Error{Kind: model.KindValidation, Message: "owner does not match the opened vault", Field: "owner"}
	case v.doc.IsRegistered():
		return model.NewErrorf(model.KindConflict, "vault for %q is already registered", owner)
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		doc.Owner = owner
		doc.MasterPassphrase = master
		doc.Entries = []model.CredentialEntry{}
		doc.Constants = []model.ConstantPair{}
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "vault registered")
	return nil
}

// Authenticate checks owner and master against the stored credentials in
// constant time.
func (v *Vault) Authenticate(owner, master string) error {
	if err := v.requireRegistered(); err != nil {
		return err
	}
	ownerOK := subtle.ConstantTimeCompare([]byte(owner), []byte(v.doc.Owner))
	masterOK := subtle.ConstantTimeCompare([]byte(master), []byte(v.doc.MasterPassphrase))
	if ownerOK&masterOK != 1 {
		return model.NewError(model.KindAuthorization, "invalid owner or master passphrase")
	}
	return nil
}

// ResetMasterPassphrase replaces the master passphrase after checking old.
func (v *Vault) ResetMasterPassphrase(ctx context.Context, old, next string) error {
	ctx = v.opContext(ctx, "reset")

	if err := v.Authenticate(v.owner, old); err != nil {
		return err
	}
	if next == "" {
		return model.MissingField("masterPassphrase")
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		doc.MasterPassphrase = next
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "master passphrase reset")
	return nil
}

// Create validates and screens in, stores it as a new entry, and returns its
// listable view.
func (v *Vault) Create(ctx context.Context, in model.EntryInput) (model.ListableEntry, error) {
	ctx = v.opContext(ctx, "create")

	if err := v.requireRegistered(); err != nil {
		return model.ListableEntry{}, err
	}
	if err := in.Validate(); err != nil {
		return model.ListableEntry{}, err
	}
	if err := v.screen(in.Passphrase); err != nil {
		return model.ListableEntry{}, err
	}

	var created model.CredentialEntry
	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		id, err := v.uniqueID(doc)
		if err != nil {
			return err
		}
		now := v.timestamp()
		created = model.CredentialEntry{
			ID:                id,
			Platform:          in.Platform,
			URL:               in.URL,
			Identity:          in.Identity,
			Notes:             in.Notes,
			PassphraseHistory: []model.PassphraseRecord{{Value: in.Passphrase, CreatedAt: now}},
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		doc.Entries = append(doc.Entries, created)
		return nil
	})
	if err != nil {
		return model.ListableEntry{}, err
	}

	v.logger.InfoContext(ctx, "entry created", "id", created.ID, "platform", created.Platform)
	return listable(created, v.doc.Constants), nil
}

// FetchAll returns every entry in insertion order.
func (v *Vault) FetchAll(ctx context.Context) ([]model.ListableEntry, error) {
	ctx = v.opContext(ctx, "list")

	if err := v.requireRegistered(); err != nil {
		return nil, err
	}

	out := make([]model.ListableEntry, 0, len(v.doc.Entries))
	for _, e := range v.doc.Entries {
		out = append(out, listable(e, v.doc.Constants))
	}
	v.logger.DebugContext(ctx, "entries listed", "count", len(out))
	return out, nil
}

// Query returns the entries whose platform, url or identity contains keyword.
// The identity matches both as stored and as resolved. Matching is
// case-sensitive.
func (v *Vault) Query(ctx context.Context, keyword string) ([]model.ListableEntry, error) {
	ctx = v.opContext(ctx, "query")

	if err := v.requireRegistered(); err != nil {
		return nil, err
	}

	out := []model.ListableEntry{}
	for _, e := range v.doc.Entries {
		resolved := model.ResolveConstant(e.Identity, v.doc.Constants)
		if strings.Contains(e.Platform, keyword) ||
			strings.Contains(e.URL, keyword) ||
			strings.Contains(e.Identity, keyword) ||
			strings.Contains(resolved, keyword) {
			out = append(out, listable(e, v.doc.Constants))
		}
	}
	v.logger.DebugContext(ctx, "entries queried", "matches", len(out))
	return out, nil
}

// FetchOne records an access to the entry and returns its full view. The
// access is persisted before the view is returned; updatedAt is unchanged.
func (v *Vault) FetchOne(ctx context.Context, id string) (model.FullEntry, error) {
	ctx = v.opContext(ctx, "fetch")

	if err := v.requireRegistered(); err != nil {
		return model.FullEntry{}, err
	}
	i := v.doc.IndexOf(id)
	if i < 0 {
		return model.FullEntry{}, entryNotFound(id)
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		doc.Entries[i].TotalAccesses++
		return nil
	})
	if err != nil {
		return model.FullEntry{}, err
	}

	e := v.doc.Entries[i]
	v.logger.InfoContext(ctx, "entry accessed", "id", e.ID, "total_accesses", e.TotalAccesses)
	return full(e, v.doc.Constants), nil
}

// Update replaces the content fields of an entry. id, createdAt and
// totalAccesses are kept. A passphrase that differs from the current one is
// screened and appended to the history; an unchanged one adds nothing.
// updatedAt moves to now unless preserveUpdatedAt is set.
func (v *Vault) Update(ctx context.Context, id string, in model.EntryInput, preserveUpdatedAt bool) (model.ListableEntry, error) {
	ctx = v.opContext(ctx, "update")

	if err := v.requireRegistered(); err != nil {
		return model.ListableEntry{}, err
	}
	i := v.doc.IndexOf(id)
	if i < 0 {
		return model.ListableEntry{}, entryNotFound(id)
	}
	if err := in.Validate(); err != nil {
		return model.ListableEntry{}, err
	}

	rotated := in.Passphrase != v.doc.Entries[i].Passphrase()
	if rotated {
		if err := v.screen(in.Passphrase); err != nil {
			return model.ListableEntry{}, err
		}
	}

	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		e := &doc.Entries[i]
		now := v.timestamp()
		e.Platform = in.Platform
		e.URL = in.URL
		e.Identity = in.Identity
		e.Notes = in.Notes
		if rotated {
			e.PassphraseHistory = append(e.PassphraseHistory, model.PassphraseRecord{Value: in.Passphrase, CreatedAt: now})
		}
		if !preserveUpdatedAt {
			e.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return model.ListableEntry{}, err
	}

	e := v.doc.Entries[i]
	v.logger.InfoContext(ctx, "entry updated", "id", e.ID, "rotated", rotated, "history", len(e.PassphraseHistory))
	return listable(e, v.doc.Constants), nil
}

// Delete removes the entry with id. Deleting an absent id is not an error;
// the document is persisted either way.
func (v *Vault) Delete(ctx context.Context, id string) error {
	ctx = v.opContext(ctx, "delete")

	if err := v.requireRegistered(); err != nil {
		return err
	}

	var removed bool
	err := v.mutate(ctx, func(doc *model.VaultDocument) error {
		before := len(doc.Entries)
		doc.Entries = slices.DeleteFunc(doc.Entries, func(e model.CredentialEntry) bool { return e.ID == id })
		removed = len(doc.Entries) != before
		return nil
	})
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "entry deleted", "id", id, "removed", removed)
	return nil
}

// Export returns a deep copy of the stored entries with identities unresolved,
// for export adapters.
func (v *Vault) Export(ctx context.Context) ([]model.CredentialEntry, error) {
	ctx = v.opContext(ctx, "export")

	if err := v.requireRegistered(); err != nil {
		return nil, err
	}

	out := make([]model.CredentialEntry, len(v.doc.Entries))
	for i, e := range v.doc.Entries {
		out[i] = e.Clone()
	}
	v.logger.InfoContext(ctx, "entries exported", "count", len(out))
	return out, nil
}

func (v *Vault) requireRegistered() error {
	if !v.doc.IsRegistered() {
		return model.NewErrorf(model.KindAuthorization, "vault for %q is not registered", v.owner)
	}
	return nil
}

// mutate applies fn to a copy of the document, persists the copy, and makes
// it current. On any error the current document is untouched.
func (v *Vault) mutate(ctx context.Context, fn func(doc *model.VaultDocument) error) error {
	if v.closed {
		return model.NewError(model.KindStorage, "vault is closed")
	}

	next := v.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := v.repo.Save(ctx, v.owner, next); err != nil {
		v.logger.ErrorContext(ctx, "persist vault", "error", err)
		return err
	}
	v.doc = next
	return nil
}

func (v *Vault) screen(passphrase string) error {
	breached, err := v.index.IsKnownBreached(passphrase)
	if err != nil {
		return err
	}
	if breached {
		return model.NewError(model.KindBreached, "passphrase appears in a known breach corpus")
	}
	return nil
}

func (v *Vault) uniqueID(doc *model.VaultDocument) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		if id := v.newID(); id != "" && !doc.HasID(id) {
			return id, nil
		}
	}
	return "", model.NewError(model.KindConflict, "could not allocate a unique entry id")
}

func (v *Vault) timestamp() time.Time {
	return v.now().UTC()
}

func (v *Vault) opContext(ctx context.Context, op string) context.Context {
	return logging.WithOperation(logging.WithOwner(ctx, v.owner), op)
}

func entryNotFound(id string) error {
	return model.NewErrorf(model.KindNotFound, "no entry with id %q", id)
}

func listable(e model.CredentialEntry, constants []model.ConstantPair) model.ListableEntry {
	cur := e.CurrentRecord()
	return model.ListableEntry{
		ID:            e.ID,
		Platform:      e.Platform,
		Identity:      model.ResolveConstant(e.Identity, constants),
		URL:           e.URL,
		TotalAccesses: e.TotalAccesses,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Passphrase: model.PassphraseMeta{
			Length:    utf8.RuneCountInString(cur.Value),
			Strength:  strength.Score(cur.Value),
			CreatedAt: cur.CreatedAt,
		},
	}
}

func full(e model.CredentialEntry, constants []model.ConstantPair) model.FullEntry {
	return model.FullEntry{
		ListableEntry:     listable(e, constants),
		Notes:             e.Notes,
		CurrentPassphrase: e.Passphrase(),
		PassphraseHistory: slices.Clone(e.PassphraseHistory),
	}
}
