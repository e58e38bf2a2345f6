package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher_Algorithms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		algorithm string
		prefix    string
	}{
		{"", "$2a$"},
		{"bcrypt", "$2a$"},
		{"BCRYPT", "$2a$"},
		{"argon2id", "$argon2id$"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.algorithm, func(t *testing.T) {
			t.Parallel()

			h, err := NewPasswordHasher(tt.algorithm, bcrypt.MinCost)
			if err != nil {
				t.Fatalf("NewPasswordHasher(%q) failed: %v", tt.algorithm, err)
			}

			digest, err := h.Hash("s3cret-pass")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			if !strings.HasPrefix(digest, tt.prefix) {
				t.Errorf("expected digest prefix %q, got %q", tt.prefix, digest)
			}

			ok, err := h.Verify("s3cret-pass", digest)
			if err != nil || !ok {
				t.Errorf("expected verify success, ok=%v err=%v", ok, err)
			}
			ok, err = h.Verify("other-pass", digest)
			if err != nil || ok {
				t.Errorf("expected mismatch without error, ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestNewPasswordHasher_Unknown(t *testing.T) {
	t.Parallel()

	if _, err := NewPasswordHasher("md5", 0); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestNewPasswordHasher_BadCost(t *testing.T) {
	t.Parallel()

	if _, err := NewPasswordHasher(AlgorithmBcrypt, bcrypt.MaxCost+1); err == nil {
		t.Error("expected error for out-of-range bcrypt cost")
	}
}

func TestPasswordHasher_VerifiesAcrossAlgorithms(t *testing.T) {
	t.Parallel()

	argonFirst, err := NewPasswordHasher(AlgorithmArgon2id, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	bcryptNow, err := NewPasswordHasher(AlgorithmBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	// A digest written before switching algorithms must still verify.
	legacy, err := argonFirst.Hash("migrated-password")
	if err != nil {
		t.Fatal(err)
	}
	ok, err := bcryptNow.Verify("migrated-password", legacy)
	if err != nil || !ok {
		t.Errorf("expected argon2id digest to verify under bcrypt hasher, ok=%v err=%v", ok, err)
	}
}

func TestPasswordHasher_InvalidDigest(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(AlgorithmBcrypt, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	for _, digest := range []string{"", "plaintext", "$2a$short"} {
		ok, err := h.Verify("password", digest)
		if !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Verify(%q): expected ErrInvalidHash, got %v", digest, err)
		}
		if ok {
			t.Errorf("Verify(%q): invalid digest must not match", digest)
		}
	}
}
