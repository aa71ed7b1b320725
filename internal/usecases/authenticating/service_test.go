package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/dgflow/attribution-api/internal/config"
	"github.com/dgflow/attribution-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(secret string) *Service {
	return NewService(&config.Config{Auth: config.Auth{Secret: secret}})
}

func TestValidateToken_RoundTrip(t *testing.T) {
	s := newTestService("segredo")

	token, err := s.IssueToken(&domain.Claims{UserID: "u1", UserRole: domain.RoleClient, ClientIDs: []string{"c1"}}, time.Hour)
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.True(t, claims.CanAccessClient("c1"))
	assert.False(t, claims.CanAccessClient("c2"))
}

func TestValidateToken_Expired(t *testing.T) {
	s := newTestService("segredo")

	token, err := s.IssueToken(&domain.Claims{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := newTestService("outro").IssueToken(&domain.Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	_, err = newTestService("segredo").ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &domain.Claims{UserID: "u1"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestService("segredo").ValidateToken(signed)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
