// Package token issues and verifies the signed bearer tokens used for
// sessions and one-time email actions. Tokens are HS256 JWTs carrying the
// subject id, issued-at and expiry; nothing is persisted server-side.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when the token was valid but is past expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for any signature or format problem.
	ErrInvalid = errors.New("invalid token")
)

// Issuer signs and verifies tokens with a process-wide secret and a fixed
// lifetime. Construct one per token flavor (session vs action).
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token for the given subject id.
func (i *Issuer) Issue(subjectID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  subjectID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the subject id.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if !tkn.Valid {
		return "", ErrInvalid
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return "", ErrInvalid
	}
	return id, nil
}
