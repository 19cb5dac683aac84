package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = errors.New("bearer token is required")
	errInvalidToken = errors.New("bearer token is invalid")
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	Roles []string `json:"roles"`
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 bearer tokens against a shared secret.
type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Verify requires a signed, unexpired token with a subject.
func (v *TokenVerifier) Verify(raw string) (Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return Claims{}, errInvalidToken
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, errInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, errInvalidToken
	}
	return claims, nil
}

// Issue signs a token for userID. Used by the operator CLI and tests.
func (v *TokenVerifier) Issue(userID string, roles []string, ttl time.Duration) (string, error) {
	now := v.now().UTC()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func (v *TokenVerifier) authenticate(r *http.Request) (Claims, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Claims{}, errMissingToken
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return Claims{}, errMissingToken
	}
	return v.Verify(strings.TrimSpace(token))
}
