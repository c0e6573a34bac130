package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Configuration for PBKDF2-HMAC-SHA256 key derivation.
const (
	saltLength = 32     // Length of the random salt
	iterations = 100000 // Iteration count
	keyLength  = 128    // Length of the derived key
)

// Credential is a stored password credential: a random salt plus the key
// derived from it. The plaintext password is never stored.
type Credential struct {
	Salt []byte
	Key  []byte
}

// IsZero reports whether the credential is missing either component.
func (c Credential) IsZero() bool {
	return len(c.Salt) == 0 || len(c.Key) == 0
}

// SaltHex returns the salt as a lowercase hex string for storage.
func (c Credential) SaltHex() string { return hex.EncodeToString(c.Salt) }

// KeyHex returns the derived key as a lowercase hex string for storage.
func (c Credential) KeyHex() string { return hex.EncodeToString(c.Key) }

// CredentialFromHex rebuilds a Credential from its stored hex form.
func CredentialFromHex(saltHex, keyHex string) (Credential, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return Credential{}, fmt.Errorf("invalid credential salt: %w", err)
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return Credential{}, fmt.Errorf("invalid credential key: %w", err)
	}
	return Credential{Salt: salt, Key: key}, nil
}

// HashPassword derives a storable credential from a plaintext password using
// PBKDF2-HMAC-SHA256 with a fresh random salt.
func HashPassword(password string) (Credential, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return Credential{Salt: salt, Key: key}, nil
}

// VerifyPassword re-derives the key from the supplied password and the stored
// salt and compares it to the stored key in constant time. A malformed or
// empty credential fails closed.
func VerifyPassword(password string, cred Credential) bool {
	if cred.IsZero() {
		return false
	}

	derived := pbkdf2.Key([]byte(password), cred.Salt, iterations, len(cred.Key), sha256.New)
	return subtle.ConstantTimeCompare(derived, cred.Key) == 1
}
