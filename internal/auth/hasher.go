// Package auth provides password hashing, session tokens and request identity helpers.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

// Supported password hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrUnknownAlgorithm indicates an unsupported hashing algorithm was requested.
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
)

// PasswordHasher produces and checks one-way salted password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch is
	// (false, nil); an unreadable digest is an error.
	Verify(plaintext, digest string) (bool, error)
}

// NewPasswordHasher returns a hasher that creates digests with the given
// algorithm and verifies digests produced by any supported algorithm.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	bc, err := NewBcryptHasher(bcryptCost)
	if err != nil {
		return nil, err
	}
	ar := NewArgon2Hasher()

	var primary PasswordHasher
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		primary = bc
	case AlgorithmArgon2id:
		primary = ar
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	return &multiHasher{primary: primary, bcrypt: bc, argon2: ar}, nil
}

// multiHasher hashes with one algorithm and picks the verifier from the digest prefix,
// so stored digests stay valid after the configured algorithm changes.
type multiHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (m *multiHasher) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *multiHasher) Verify(plaintext, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return m.argon2.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2a$"),
		strings.HasPrefix(digest, "$2b$"),
		strings.HasPrefix(digest, "$2y$"):
		return m.bcrypt.Verify(plaintext, digest)
	default:
		return false, ErrInvalidHash
	}
}
