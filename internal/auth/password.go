package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	keyLength  = 32
	iterations = 100_000
)

// HashPassword derives a salted digest of the password and encodes it
// as "base64(salt):base64(digest)". Every call draws a fresh random
// salt, so hashing the same password twice yields different strings
// that both verify.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	digest := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + ":" +
		base64.StdEncoding.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest with the stored salt and
// compares in constant time. A malformed stored value fails closed:
// the function returns false and never panics or errors.
func VerifyPassword(password, storedHash string) bool {
	parts := strings.Split(storedHash, ":")
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	digest, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, iterations, len(digest), sha256.New)

	return subtle.ConstantTimeCompare(digest, candidate) == 1
}
