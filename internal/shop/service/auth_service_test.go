package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/username-dz/joker/internal/config"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "auth-test-secret",
			AccessTokenExpire:  2 * time.Hour,
			RefreshTokenExpire: 720 * time.Hour,
			Issuer:             "joker-backend",
		},
	}
}

// Refresh token族谱只存在于Redis，没有Redis时任何token都不可续期。
func TestRefreshWithoutRedis(t *testing.T) {
	svc := NewAuthService(nil, nil, testAuthConfig())

	if _, err := svc.Refresh(context.Background(), "any-token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("expected ErrInvalidRefresh, got %v", err)
	}
}

func TestLogoutWithoutRedis(t *testing.T) {
	svc := NewAuthService(nil, nil, testAuthConfig())

	// 不应panic
	svc.Logout(context.Background(), "any-token")
}
