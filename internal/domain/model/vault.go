package model

import (
	"slices"
	"time"
)

// VaultDocument is the whole persisted unit for one owner. It is encrypted and
// rewritten in full after every mutation.
type VaultDocument struct {
	Owner            string            `json:"owner"`
	MasterPassphrase string            `json:"masterPassphrase"`
	Entries          []CredentialEntry `json:"entries"`
	Constants        []ConstantPair    `json:"constants"`
}

// IsRegistered reports whether the document has been claimed by an owner.
func (d *VaultDocument) IsRegistered() bool {
	return d.Owner != "" && d.MasterPassphrase != ""
}

// Clone returns a deep copy so a mutation can be staged without touching d.
func (d *VaultDocument) Clone() VaultDocument {
	out := VaultDocument{
		Owner:            d.Owner,
		MasterPassphrase: d.MasterPassphrase,
		Constants:        slices.Clone(d.Constants),
	}
	if d.Entries != nil {
		out.Entries = make([]CredentialEntry, len(d.Entries))
		for i, e := range d.Entries {
			out.Entries[i] = e.Clone()
		}
	}
	return out
}

// IndexOf returns the position of the entry with the given id, or -1.
func (d *VaultDocument) IndexOf(id string) int {
	return slices.IndexFunc(d.Entries, func(e CredentialEntry) bool { return e.ID == id })
}

// HasID reports whether any live entry carries id.
func (d *VaultDocument) HasID(id string) bool {
	return d.IndexOf(id) >= 0
}

// PassphraseRecord is one element of an entry's passphrase history.
type PassphraseRecord struct {
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

// CredentialEntry is one stored credential. Identity may be a constant
// reference of the form _$key; it is always stored unresolved.
type CredentialEntry struct {
	ID                string             `json:"id"`
	Platform          string             `json:"platform"`
	URL               string             `json:"url"`
	Identity          string             `json:"identity"`
	Notes             string             `json:"notes,omitempty"`
	PassphraseHistory []PassphraseRecord `json:"passphraseHistory"`
	TotalAccesses     int                `json:"totalAccesses"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Passphrase returns the current passphrase, the tip of the history.
func (e *CredentialEntry) Passphrase() string {
	if len(e.PassphraseHistory) == 0 {
		return ""
	}
	return e.PassphraseHistory[len(e.PassphraseHistory)-1].Value
}

// CurrentRecord returns the tip of the history. The zero record is returned
// for an entry with no history, which never survives validation.
func (e *CredentialEntry) CurrentRecord() PassphraseRecord {
	if len(e.PassphraseHistory) == 0 {
		return PassphraseRecord{}
	}
	return e.PassphraseHistory[len(e.PassphraseHistory)-1]
}

// Clone returns a copy that shares no slices with e.
func (e CredentialEntry) Clone() CredentialEntry {
	e.PassphraseHistory = slices.Clone(e.PassphraseHistory)
	return e
}

// EntryInput carries the caller-supplied fields of a create or update request.
type EntryInput struct {
	Platform   string `json:"platform"`
	URL        string `json:"url"`
	Identity   string `json:"identity"`
	Notes      string `json:"notes,omitempty"`
	Passphrase string `json:"passphrase"`
}

// Validate checks the required fields in the order platform, passphrase,
// url, identity and reports the first one missing.
func (in EntryInput) Validate() error {
	switch {
	case in.Platform == "":
		return MissingField("platform")
	case in.Passphrase == "":
		return MissingField("passphrase")
	case in.URL == "":
		return MissingField("url")
	case in.Identity == "":
		return MissingField("identity")
	}
	return nil
}
