package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/motordesk/motordesk/pkg/model"
)

func testUser() *model.User {
	return &model.User{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Email:     "sales@example.com",
		IsAdmin:   true,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour, 24*time.Hour)
	user := testUser()

	token, err := manager.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := manager.Validate(token, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	identity, err := claims.Identity()
	if err != nil {
		t.Fatalf("Identity error: %v", err)
	}
	if identity.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, identity.UserID)
	}
	if identity.CompanyID != user.CompanyID {
		t.Fatalf("expected company id %s, got %s", user.CompanyID, identity.CompanyID)
	}
	if !identity.IsAdmin {
		t.Fatal("expected admin flag to survive the round trip")
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour, 24*time.Hour)

	token, jti, err := manager.GenerateRefreshToken(testUser())
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}
	if jti == "" {
		t.Fatal("expected a jti")
	}

	if _, err := manager.Validate(token, TokenTypeAccess); err == nil {
		t.Fatal("expected refresh token to be rejected as access token")
	}
	if _, err := manager.Validate(token, TokenTypeRefresh); err != nil {
		t.Fatalf("expected refresh token to validate as refresh: %v", err)
	}
}

func TestValidateRejectsWrongKey(t *testing.T) {
	manager := NewTokenManager([]byte("test-secret"), time.Hour, 24*time.Hour)
	other := NewTokenManager([]byte("other-secret"), time.Hour, 24*time.Hour)

	token, err := manager.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	if _, err := other.Validate(token, TokenTypeAccess); err == nil {
		t.Fatal("expected token signed with another key to be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !CheckPassword(hash, "hunter2hunter2") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatal("expected mismatched password to fail")
	}
}
