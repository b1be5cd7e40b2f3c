package models

import "time"

// Credential is a stored website secret. Username and Password hold cipher
// tokens; Website stays in clear text so it can be indexed and listed.
type Credential struct {
	ID                int64
	Website           string
	EncryptedUsername string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DeletedAt is set when the credential is soft-deleted.
	DeletedAt *time.Time
}

// Active reports whether the credential is not soft-deleted.
func (c *Credential) Active() bool { return c.DeletedAt == nil }

// Record is a decrypted credential as exchanged with the user.
type Record struct {
	Website  string `json:"website" yaml:"website"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// MasterAccount is the single identity that unlocks the vault. Both fields
// hold cipher tokens.
type MasterAccount struct {
	EncryptedUsername string
	EncryptedPassword string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ImportFailure names one snapshot entry that could not be stored.
type ImportFailure struct {
	Index   int    `json:"index"`
	Website string `json:"website"`
	Reason  string `json:"reason"`
}

// ImportReport summarises an import; entries are independent so a failure
// never undoes earlier successes.
type ImportReport struct {
	Imported int
	Failed   []ImportFailure
}

// HygieneReport counts active credentials by strength level and how many
// share a password with another credential.
type HygieneReport struct {
	Total     int
	ByLevel   map[string]int
	Reused    int
	WeakSites []string
}
