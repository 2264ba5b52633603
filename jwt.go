package main

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// placeholderToken is handed out when no JWT_SECRET is configured.
const placeholderToken = "your_generated_token"

// Claims is the login token payload.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs login tokens. Nothing on the server checks them later.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    24 * time.Hour,
		now:    time.Now,
	}
}

// Issue returns an HS256 token for u, or the placeholder when unsigned.
func (t *TokenIssuer) Issue(u User) (string, error) {
	if len(t.secret) == 0 {
		return placeholderToken, nil
	}

	now := t.now()
	claims := Claims{
		UserID: u.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if u.Username != nil {
		claims.Username = *u.Username
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
