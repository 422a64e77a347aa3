package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for password hashing. The encoded output is
// "hex(key).hex(salt)" so verification needs no external state.
const (
	scryptN       = 16384
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 64
	scryptSaltLen = 16
)

// HashPassword derives a salted scrypt hash from a plaintext password.
// A fresh random salt is drawn on every call, so hashing the same
// password twice yields different outputs.
func HashPassword(password string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword recomputes the hash with the stored salt and compares
// in constant time.
func VerifyPassword(password, stored string) (bool, error) {
	hashHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false, fmt.Errorf("malformed stored hash")
	}

	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, fmt.Errorf("malformed stored hash: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, fmt.Errorf("malformed stored salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}

	return subtle.ConstantTimeCompare(expected, key) == 1, nil
}
