package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	AccessTTL  = 20 * time.Minute
	RefreshTTL = 24 * time.Hour
)

// ErrInvalidToken covers bad signature, malformed payload and expiry alike;
// callers surface it as a client error, not a server fault.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Issue signs a token embedding the subject id, username and token type,
// valid from now until now+ttl.
func Issue(secret []byte, userID uint, username, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func NewAccessToken(secret []byte, userID uint, username string) (string, error) {
	return Issue(secret, userID, username, TypeAccess, AccessTTL)
}

func NewRefreshToken(secret []byte, userID uint, username string) (string, error) {
	return Issue(secret, userID, username, TypeRefresh, RefreshTTL)
}

// Parse verifies the signature and expiry and returns the embedded claims.
func Parse(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
