package services

import (
	"testing"

	"github.com/renttrust/renttrust/internal/config"
	"github.com/renttrust/renttrust/internal/models"
	"github.com/renttrust/renttrust/internal/utils"
)

func testAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	db := setupTestDB(t)
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireHour: 1}, &config.OAuthConfig{
		ClientID:    "client",
		RedirectURL: "http://localhost/callback",
	})
	if err := EnsureAdminAccount(db, "admin", "admin123"); err != nil {
		t.Fatalf("EnsureAdminAccount: %v", err)
	}
	return svc
}

func TestRedirectURL(t *testing.T) {
	svc := testAuthService(t)

	url, state := svc.RedirectURL()
	if url == "" {
		t.Fatal("empty consent URL")
	}
	if state == "" {
		t.Fatal("empty state")
	}

	_, state2 := svc.RedirectURL()
	if state == state2 {
		t.Error("state nonce must differ per call")
	}
}

func TestLogin_Operator(t *testing.T) {
	svc := testAuthService(t)

	result, err := svc.Login(&LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected session token")
	}
	if !result.User.IsAdmin {
		t.Error("operator account must be admin")
	}

	claims, err := utils.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q, want admin", claims.Role)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("token user id = %d, want %d", claims.UserID, result.User.ID)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc := testAuthService(t)

	if _, err := svc.Login(&LoginRequest{Username: "admin", Password: "wrong"}); err == nil {
		t.Error("wrong password must be rejected")
	}
	if _, err := svc.Login(&LoginRequest{Username: "ghost", Password: "admin123"}); err == nil {
		t.Error("unknown username must be rejected")
	}
}

func TestEnsureAdminAccount_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := EnsureAdminAccount(db, "admin", "pw-one"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := EnsureAdminAccount(db, "admin", "pw-two"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count != 1 {
		t.Errorf("admin rows = %d, want 1", count)
	}

	// The original password still works; reseeding must not overwrite it
	var admin models.User
	db.Where("username = ?", "admin").First(&admin)
	if !utils.CheckPassword("pw-one", admin.Password) {
		t.Error("original password no longer valid after reseed")
	}
}
