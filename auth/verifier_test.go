package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestVerify_RoundTripPhoneClaim(t *testing.T) {
	token, err := GenerateToken(testSecret, "+919876543210", "customer", time.Hour)
	require.NoError(t, err)

	principal, err := NewJWTVerifier(testSecret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", principal.PhoneNumber)
}

func TestVerify_MissingToken(t *testing.T) {
	_, err := NewJWTVerifier(testSecret).Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestVerify_GarbageToken(t *testing.T) {
	_, err := NewJWTVerifier(testSecret).Verify(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "+911111111111", "customer", -time.Hour)
	require.NoError(t, err)

	_, err = NewJWTVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("other-secret"), "+911111111111", "customer", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingPhoneClaim(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		Subject:   "someone",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewJWTVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNonHMACSigningMethod(t *testing.T) {
	// alg=none style tokens must be rejected, normalized to ErrInvalidToken
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		PhoneNumber: "+911111111111",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_CancelledContext(t *testing.T) {
	token, err := GenerateToken(testSecret, "+911111111111", "customer", time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewJWTVerifier(testSecret).Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
