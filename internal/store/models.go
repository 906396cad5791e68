package store

import "time"

// Secret is the metadata recorded for one split: how the secret was dealt,
// never the secret itself.
type Secret struct {
	ID        uint64    `json:"id"`
	CreatorID uint64    `json:"creator_id"`
	Label     string    `json:"label"`
	N         int       `json:"n"`
	K         int       `json:"k"`
	Nonce     []byte    `json:"nonce"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShareRecord binds one encoded share envelope to a keeper and its parent
// secret. ShareData is the envelope text, encrypted at rest when the store
// has a passphrase. Deleting the parent secret cascades to its shares.
type ShareRecord struct {
	ID          uint64    `json:"id"`
	KeeperID    uint64    `json:"keeper_id"`
	SecretID    uint64    `json:"secret_id"`
	ShareData   string    `json:"share_data"`
	SecretNonce []byte    `json:"secret_nonce"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is a keeper or operator account. PasswordHash is argon2id over
// Salt; the password itself is never stored.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	Salt         []byte    `json:"salt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role names a coarse permission bundle.
type Role string

// Built-in roles.
const (
	RoleAdmin  Role = "admin"
	RoleKeeper Role = "keeper"
	RoleReader Role = "reader"
)
