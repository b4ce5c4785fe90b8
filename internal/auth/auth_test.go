package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

var testConfig = Config{Secret: "secret", Issuer: "https://closet.example/", Audience: "closet"}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		err    error
	}{
		{header: "", err: ErrHeaderMissing},
		{header: "Token abc", err: ErrInvalidHeader},
		{header: "Bearer", err: ErrInvalidHeader},
		{header: "Bearer a b", err: ErrInvalidHeader},
		{header: "Bearer abc", want: "abc"},
		{header: "bearer abc", want: "abc"},
	}
	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("BearerToken(%q) error = %v, want %v", tt.header, err, tt.err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

func TestIssueThenVerify(t *testing.T) {
	token, err := NewIssuer(testConfig, time.Hour).Issue("auth0|alice", []domain.Scope{domain.ScopeGetClothes})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := NewVerifier(testConfig).Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "auth0|alice" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if !claims.HasPermission(domain.ScopeGetClothes) || claims.HasPermission(domain.ScopePostClothes) {
		t.Errorf("unexpected permissions %v", claims.Permissions)
	}
}

func TestVerifyRejects(t *testing.T) {
	sign := func(secret string, claims Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	valid := func() Claims {
		return Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|alice",
			Issuer:    testConfig.Issuer,
			Audience:  jwt.ClaimStrings{testConfig.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "https://elsewhere/"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}
	noSubject := valid()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
		err   error
	}{
		{"expired", sign("secret", expired), ErrTokenExpired},
		{"wrong issuer", sign("secret", wrongIssuer), ErrInvalidClaims},
		{"wrong audience", sign("secret", wrongAudience), ErrInvalidClaims},
		{"no subject", sign("secret", noSubject), ErrInvalidClaims},
		{"bad signature", sign("other", valid()), ErrInvalidHeader},
		{"garbage", "not-a-token", ErrInvalidHeader},
	}
	v := NewVerifier(testConfig)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); !errors.Is(err, tt.err) {
				t.Fatalf("Verify error = %v, want %v", err, tt.err)
			}
		})
	}
}
