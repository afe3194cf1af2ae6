package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/groupsite-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = time.Hour

// ErrInvalid covers every reason a token is rejected: malformed, bad
// signature, wrong algorithm, expired, or missing claims.
var ErrInvalid = errors.New("invalid access token")

// Claims is the access-token payload. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(key []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) Issue(userID, email string, role domain.Role) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: email,
		Role:  role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(signed string) (domain.Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return domain.Identity{}, ErrInvalid
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return domain.Identity{}, ErrInvalid
	}
	return domain.Identity{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}
