package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shivarya/splitcash/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com", Name: "Alice"}

	t.Run("generate and validate round trip", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if token == "" {
			t.Fatal("expected non-empty token")
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("UserID = %s, want %s", claims.UserID, user.ID)
		}
		if claims.Email != user.Email {
			t.Errorf("Email = %s, want %s", claims.Email, user.Email)
		}
		if claims.Name != user.Name {
			t.Errorf("Name = %s, want %s", claims.Name, user.Name)
		}
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); err == nil {
			t.Error("expected error for malformed token")
		}
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		other := NewJWTManager("a-completely-different-secret!!!", time.Hour)
		token, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); err == nil {
			t.Error("expected error for wrong signature")
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		_, err = manager.Validate(token)
		if err == nil {
			t.Fatal("expected error for expired token")
		}
		if !strings.Contains(err.Error(), ErrInvalidToken.Error()) {
			t.Errorf("error = %v, want wrapped ErrInvalidToken", err)
		}
	})

	t.Run("rejects token from another issuer", func(t *testing.T) {
		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			UserID: user.ID,
			Email:  user.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, err := foreign.SignedString([]byte("test-secret-key-32-bytes-long!!!"))
		if err != nil {
			t.Fatalf("SignedString failed: %v", err)
		}
		if _, err := manager.Validate(token); err == nil {
			t.Error("expected error for foreign issuer")
		}
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		token, err := manager.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		tampered := token[:len(token)-4] + "AAAA"
		if _, err := manager.Validate(tampered); err == nil {
			t.Error("expected error for tampered token")
		}
	})
}
