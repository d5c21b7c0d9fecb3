package security

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/finprodb/shop-api/internal/domains/users/domain"
	"github.com/finprodb/shop-api/internal/domains/users/ports"
)

func TestJWTIssueAndParse(t *testing.T) {
	issuer, err := NewJWTIssuer("change-me-please", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(&domain.User{ID: 7, Username: "alice", Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, domain.RoleAdmin, claims.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer, err := NewJWTIssuer("change-me-please", time.Minute)
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := issuer.Issue(&domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	require.ErrorIs(t, err, ports.ErrInvalidToken)

	other, err := NewJWTIssuer("another-secret", time.Minute)
	require.NoError(t, err)
	foreign, err := other.Issue(&domain.User{ID: 1, Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	fresh, err := NewJWTIssuer("change-me-please", time.Minute)
	require.NoError(t, err)
	_, err = fresh.Parse(foreign)
	require.ErrorIs(t, err, ports.ErrInvalidToken)
	_, err = fresh.Parse("")
	require.ErrorIs(t, err, ports.ErrInvalidToken)
}

func TestDeriveKey(t *testing.T) {
	raw := make([]byte, 48)
	for i := range raw {
		raw[i] = byte(i)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	require.Equal(t, raw, deriveKey(encoded))

	short := sha256.Sum256([]byte("short"))
	require.Equal(t, short[:], deriveKey("short"))

	plain := "this secret has spaces so it is not base64 at all!"
	require.Equal(t, []byte(plain), deriveKey(plain))
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("admin12345")
	require.NoError(t, err)
	require.True(t, hasher.Matches(hash, "admin12345"))
	require.False(t, hasher.Matches(hash, "wrong"))
	require.False(t, hasher.Matches("", "admin12345"))

	_, err = hasher.Hash("")
	require.Error(t, err)
	require.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost)
}
