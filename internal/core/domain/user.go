package domain

// UserRecord is a read-only account loaded from the reference data set.
// Exactly one of Password or PasswordHash is populated: the in-memory set keeps
// the opaque plaintext credential, the Mongo-backed set keeps a bcrypt hash.
type UserRecord struct {
	ID           int64  `json:"user_id"`
	Username     string `json:"username"`
	Password     string `json:"-"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
}
