package auth

import (
	"testing"
	"time"

	"github.com/SmartFleet/SmartFleet/internal/common/config"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "test-secret",
		Issuer:    "smartfleet",
		Audience:  "smartfleet",
	}

	token, exp, err := GenerateAccessToken(cfg, "u-1", []string{"user"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expected exp in future")
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Fatalf("subject mismatch: %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "user" {
		t.Fatalf("roles mismatch: %#v", claims.Roles)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret-a", Issuer: "smartfleet"}
	token, _, err := GenerateAccessToken(cfg, "u-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	bad := config.AuthConfig{JWTSecret: "secret-b", Issuer: "smartfleet"}
	if _, err := ParseAccessToken(bad, token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "secret", Issuer: "someone-else"}
	token, _, err := GenerateAccessToken(cfg, "u-1", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	want := config.AuthConfig{JWTSecret: "secret", Issuer: "smartfleet"}
	if _, err := ParseAccessToken(want, token); err == nil {
		t.Fatalf("expected issuer mismatch failure")
	}
}
