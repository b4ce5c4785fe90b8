// Package auth verifies bearer tokens issued by the identity provider and
// mints equivalent tokens for local development.
package auth

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

var (
	ErrHeaderMissing = &domain.Error{Kind: domain.KindUnauthorized, Code: "authorization_header_missing", Description: "Authorization header is expected."}
	ErrInvalidHeader = &domain.Error{Kind: domain.KindUnauthorized, Code: "invalid_header", Description: "Authorization header must be a bearer token."}
	ErrTokenExpired  = &domain.Error{Kind: domain.KindUnauthorized, Code: "token_expired", Description: "Token expired."}
	ErrInvalidClaims = &domain.Error{Kind: domain.KindUnauthorized, Code: "invalid_claims", Description: "Incorrect claims. Please, check the audience and issuer."}
)

// Claims is the token payload. Permissions lists the scopes granted to the
// token; the subject is the identity provider's user id.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the token grants scope.
func (c *Claims) HasPermission(scope domain.Scope) bool {
	return slices.Contains(c.Permissions, string(scope))
}

// Config names the shared secret and the expected issuer and audience.
// Empty Issuer or Audience disables that check.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(cfg Config) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{secret: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) == 0 {
		return "", ErrHeaderMissing
	}
	switch {
	case !strings.EqualFold(parts[0], "bearer"):
		return "", ErrInvalidHeader.WithDescription("Authorization header must start with \"Bearer\".")
	case len(parts) == 1:
		return "", ErrInvalidHeader.WithDescription("Token not found.")
	case len(parts) > 2:
		return "", ErrInvalidHeader
	}
	return parts[1], nil
}

// Verify checks the signature, expiry, issuer and audience of raw and
// returns its claims.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return nil, ErrInvalidClaims
	default:
		return nil, ErrInvalidHeader.WithDescription("Unable to parse authentication token.")
	}
	if claims.Subject == "" {
		return nil, ErrInvalidClaims.WithDescription("Token carries no subject.")
	}
	return claims, nil
}

// Issuer signs tokens with the same secret, issuer and audience a Verifier
// built from cfg expects.
type Issuer struct {
	cfg Config
	ttl time.Duration
}

func NewIssuer(cfg Config, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{cfg: cfg, ttl: ttl}
}

// Issue returns a signed token for subject granting scopes.
func (i *Issuer) Issue(subject string, scopes []domain.Scope) (string, error) {
	perms := make([]string, len(scopes))
	for n, s := range scopes {
		perms[n] = string(s)
	}

	now := time.Now()
	claims := Claims{
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if i.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(i.cfg.Secret))
}
