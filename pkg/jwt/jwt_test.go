package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "alice@example.com", "free")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "alice@example.com" || claims.Tier != "free" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "tubetext" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", "free")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).ValidateAccessToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	token, err := m.GenerateAccessToken(uuid.New(), "a@b.c", "free")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestValidateGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.ValidateAccessToken("not.a.token"); err == nil {
		t.Error("garbage token was accepted")
	}
}
