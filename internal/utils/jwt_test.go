package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	got, err := svc.ExtractUserID(token)
	if err != nil {
		t.Fatalf("ExtractUserID: %v", err)
	}
	if got != userID.String() {
		t.Errorf("ExtractUserID = %q, ожидали %q", got, userID)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-one").GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewJWTService("secret-two").ExtractUserID(token); err == nil {
		t.Error("токен с чужой подписью должен отклоняться")
	}
}

func TestJWTGarbage(t *testing.T) {
	svc := NewJWTService("test-secret")
	if _, err := svc.ExtractUserID("not-a-token"); err == nil {
		t.Error("мусорная строка должна отклоняться")
	}
}
