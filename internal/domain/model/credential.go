package model

import "time"

// Credentials holds the owner identity and master passphrase that an
// authorization gate checks callers against. The master passphrase never
// doubles as the encryption secret.
type Credentials struct {
	Owner            string
	MasterPassphrase string
}

// PassphraseMeta describes the current passphrase without revealing it.
type PassphraseMeta struct {
	Length    int       `json:"length"`
	Strength  int       `json:"strength"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListableEntry is the list/search view of an entry. Identity is resolved
// against the vault constants; no passphrase value is included.
type ListableEntry struct {
	ID            string         `json:"id"`
	Platform      string         `json:"platform"`
	Identity      string         `json:"identity"`
	URL           string         `json:"url"`
	TotalAccesses int            `json:"totalAccesses"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Passphrase    PassphraseMeta `json:"passphrase"`
}

// FullEntry is the single-entry view returned after an access: the listable
// fields plus notes, the current passphrase and a copy of its history.
type FullEntry struct {
	ListableEntry
	Notes             string             `json:"notes,omitempty"`
	CurrentPassphrase string             `json:"currentPassphrase"`
	PassphraseHistory []PassphraseRecord `json:"passphraseHistory"`
}
