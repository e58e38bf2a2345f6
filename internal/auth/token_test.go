package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager([]byte("super-secret"), 0)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, m.TTL())

	before := time.Now().UTC().Truncate(time.Second)
	token, expiresAt, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.WithinDuration(t, before.Add(24*time.Hour), expiresAt, 2*time.Second)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenManager_ClaimsShape(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager([]byte("secret"), time.Hour)
	require.NoError(t, err)

	token, _, err := m.Issue("u1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims["userId"])
	assert.Contains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
}

func TestTokenManager_Expired(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager([]byte("secret"), time.Hour)
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	token, _, err := m.Issue("u1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenManager([]byte("right-secret"), time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager([]byte("wrong-secret"), time.Hour)
	require.NoError(t, err)

	token, _, err := issuer.Issue("u2")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Malformed(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager([]byte("secret"), time.Hour)
	require.NoError(t, err)

	valid, _, err := m.Issue("u3")
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)

	for name, token := range map[string]string{
		"empty":            "",
		"garbage":          "not-a-jwt",
		"two segments":     parts[0] + "." + parts[1],
		"tampered payload": parts[0] + "." + parts[1] + "x." + parts[2],
	} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager([]byte("secret"), time.Hour)
	require.NoError(t, err)

	// HS512 with the right key is still refused.
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID: "u4",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresUserIDAndExpiry(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager([]byte("secret"), time.Hour)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Verify(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u5"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = m.Issue("")
	assert.Error(t, err)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager(nil, time.Hour)
	assert.Error(t, err)
}
