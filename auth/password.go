package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes    = 16
	hashBytes    = 64
	pbkdf2Rounds = 1000
)

// HashPassword derives a salted credential pair for storage. A fresh random
// salt is generated on every call; both values are hex text so they slot
// straight into the users table.
func HashPassword(password string) (salt, hash string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	salt = hex.EncodeToString(raw)
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Rounds, hashBytes, sha512.New)
	return salt, hex.EncodeToString(key), nil
}

// VerifyPassword recomputes the derived hash for the stored salt and compares
// in constant time.
func VerifyPassword(password, salt, expectedHash string) bool {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Rounds, hashBytes, sha512.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(key)), []byte(expectedHash)) == 1
}
