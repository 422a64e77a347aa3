package domain

// User represents a registered account. Password holds the encoded
// scrypt hash, never the plaintext.
type User struct {
	ID       int
	Username string
	Password string
	FullName string
}
