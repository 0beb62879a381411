package driven

// BreachIndex defines the driven port for known-compromised passphrase lookup.
type BreachIndex interface {
	// IsKnownBreached reports whether passphrase appears in the corpus. An
	// error means the corpus itself could not be trusted.
	IsKnownBreached(passphrase string) (bool, error)
}
