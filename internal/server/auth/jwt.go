// Package auth issues and reads the two kinds of HS256 tokens the service
// hands out: registration tokens mailed to new sign-ups, and session tokens
// stored in the session cookie.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/common"
)

// RegistrationPayload is the candidate account carried by a verification
// token. Password is already hashed.
type RegistrationPayload struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RegistrationClaims is the decoded form of a registration token. The token
// ID (jti) identifies it for single-use tracking.
type RegistrationClaims struct {
	jwt.RegisteredClaims
	RegistrationPayload
}

// SessionClaims identifies the logged-in user.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// GenerateRegistrationToken signs p with a fresh token ID and an expiry of
// now+ttl.
func GenerateRegistrationToken(p RegistrationPayload, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RegistrationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		RegistrationPayload: p,
	})

	return token.SignedString(secretKey)
}

// ParseRegistrationToken verifies signature and expiry and returns the
// embedded payload. secretKeys are tried in order; the first is the current
// one.
func ParseRegistrationToken(tokenString string, secretKeys ...[]byte) (*RegistrationClaims, error) {
	claims := &RegistrationClaims{}
	if err := parseRotated(tokenString, claims, secretKeys); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// GenerateSessionToken signs a session for userID valid for ttl.
func GenerateSessionToken(userID int64, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

// ParseSessionToken returns the user id of a session token signed with any of
// secretKeys. Keys are tried in order; the first is the current one.
func ParseSessionToken(tokenString string, secretKeys ...[]byte) (int64, error) {
	claims := &SessionClaims{}
	if err := parseRotated(tokenString, claims, secretKeys); err != nil {
		return 0, err
	}
	if claims.UserID == 0 {
		return 0, common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// parseRotated tries each key until one verifies. An expired token stops the
// search since its signature already matched.
func parseRotated(tokenString string, claims jwt.Claims, secretKeys [][]byte) error {
	err := common.ErrInvalidToken
	for _, key := range secretKeys {
		if err = parse(tokenString, claims, key); err == nil || errors.Is(err, common.ErrTokenExpired) {
			return err
		}
	}
	return err
}

// parse maps jwt failures onto ErrTokenExpired and ErrInvalidToken. Only
// HS256 is accepted.
func parse(tokenString string, claims jwt.Claims, secretKey []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}
