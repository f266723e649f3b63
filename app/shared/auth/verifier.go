// Package auth is the identity verification boundary. The host application
// authenticates users; this package only proves that an incoming user ID was
// minted by it, so the engine never has to trust a caller-supplied ID.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Claims is the verified identity extracted from a token.
type Claims struct {
	UserID    sharedtypes.UserID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Verifier mints and verifies user tokens.
type Verifier interface {
	// GenerateToken creates a signed token for the given user.
	GenerateToken(userID sharedtypes.UserID, ttl time.Duration) (string, error)

	// VerifyToken verifies a token and returns the claims if valid.
	VerifyToken(tokenString string) (*Claims, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

type verifier struct {
	secret []byte
}

// NewVerifier creates an HMAC-based token verifier.
func NewVerifier(secret string) Verifier {
	return &verifier{secret: []byte(secret)}
}

func (v *verifier) GenerateToken(userID sharedtypes.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

func (v *verifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	verified := &Claims{
		UserID: sharedtypes.UserID(claims.Subject),
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		verified.ExpiresAt = claims.ExpiresAt.Time
	}
	return verified, nil
}
