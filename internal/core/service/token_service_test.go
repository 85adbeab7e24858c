package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelanza/freelanza-backend/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(t *testing.T, repo *stubCredentialRepo) (*JWTTokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := NewTokenService(TokenConfig{Secret: "secret", Issuer: "freelanza", TTL: time.Hour}, repo)
	require.NoError(t, err)
	return svc.WithClock(clock.Now), clock
}

func TestTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{}, newStubCredentialRepo())
	require.Error(t, err)
}

func TestTokenService_IssueThenValidate(t *testing.T) {
	svc, _ := newTestTokenService(t, newStubCredentialRepo())

	token, err := svc.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, svc.Validate(token))
	assert.Equal(t, "alice", svc.ExtractUsername(token))
}

func TestTokenService_Expiry(t *testing.T) {
	svc, clock := newTestTokenService(t, newStubCredentialRepo())

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	assert.True(t, svc.Validate(token))

	clock.t = clock.t.Add(2 * time.Minute)
	assert.False(t, svc.Validate(token))
	assert.Empty(t, svc.ExtractUsername(token))
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc, _ := newTestTokenService(t, newStubCredentialRepo())

	token, err := svc.Issue("alice")
	require.NoError(t, err)

	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := token[:dot+1] + string(sig)

	assert.False(t, svc.Validate(tampered))
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	svc, clock := newTestTokenService(t, newStubCredentialRepo())
	exp := jwt.NewNumericDate(clock.t.Add(time.Hour))

	t.Run("other key", func(t *testing.T) {
		other, err := NewTokenService(TokenConfig{Secret: "other", Issuer: "freelanza"}, nil)
		require.NoError(t, err)
		token, err := other.WithClock(clock.Now).Issue("alice")
		require.NoError(t, err)
		assert.False(t, svc.Validate(token))
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject: "alice", Issuer: "freelanza", ExpiresAt: exp,
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.False(t, svc.Validate(token))
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "alice", Issuer: "freelanza",
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		assert.False(t, svc.Validate(token))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject: "alice", Issuer: "elsewhere", ExpiresAt: exp,
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		assert.False(t, svc.Validate(token))
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer: "freelanza", ExpiresAt: exp,
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		assert.False(t, svc.Validate(token))
	})
}

func TestTokenService_MalformedInput(t *testing.T) {
	svc, _ := newTestTokenService(t, newStubCredentialRepo())

	for _, token := range []string{"", "not-a-token", "a.b.c", "Bearer x", "...."} {
		assert.False(t, svc.Validate(token), token)
		assert.Empty(t, svc.ExtractUsername(token), token)
	}
}

func TestTokenService_IssueRequiresUsername(t *testing.T) {
	svc, _ := newTestTokenService(t, newStubCredentialRepo())

	_, err := svc.Issue("")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTokenService_LookupAccount(t *testing.T) {
	repo := newStubCredentialRepo()
	_, err := repo.Save(context.Background(), &domain.Credential{Username: "alice", PasswordHash: "h", Role: domain.RoleClient})
	require.NoError(t, err)
	svc, _ := newTestTokenService(t, repo)

	cred, err := svc.LookupAccount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", cred.Username)

	_, err = svc.LookupAccount(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)
}
