package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Principal is a verified identity claim, not yet resolved to a stored
// account. Produced only by a successful Verify.
type Principal struct {
	PhoneNumber string
}

// TokenVerifier validates an opaque credential against the identity
// provider. Implementations must normalize every provider failure to
// ErrInvalidToken so callers never see provider-specific errors.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// Claims carried by session tokens. The phone number is the identity the
// upstream phone-auth provider verified before the token was minted.
type Claims struct {
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 session tokens.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenStr string) (*Principal, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	if err := ctx.Err(); err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid || claims.PhoneNumber == "" {
		return nil, ErrInvalidToken
	}
	return &Principal{PhoneNumber: claims.PhoneNumber}, nil
}

// GenerateToken mints a signed session token for a verified phone number.
func GenerateToken(secret []byte, phone, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		PhoneNumber: phone,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   phone,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
