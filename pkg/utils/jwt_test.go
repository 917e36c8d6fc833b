package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManager_AccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "ama@example.com", []string{"staff"}, []string{"manage-orders"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.Email != "ama@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != "manage-orders" {
		t.Fatalf("permissions not carried: %v", claims.Permissions)
	}
}

func TestJWTManager_RefreshNotAcceptedAsAccess(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	refresh, _ := m.GenerateRefreshToken(uuid.New())

	if _, err := m.ValidateAccessToken(refresh); err != ErrTokenWrongType {
		t.Fatalf("expected ErrTokenWrongType, got %v", err)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	token, _ := m.GenerateAccessToken(uuid.New(), "x@example.com", nil, nil)

	m.now = time.Now
	if _, err := m.ValidateAccessToken(token); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, _ := NewJWTManager("one", time.Minute, time.Hour).GenerateAccessToken(uuid.New(), "x@example.com", nil, nil)

	if _, err := NewJWTManager("two", time.Minute, time.Hour).ValidateAccessToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
