package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.DB.Path != "./data/splitcash.db" {
		t.Errorf("DB path = %s, want ./data/splitcash.db", cfg.DB.Path)
	}
	if cfg.JWT.ExpiresIn != 168*time.Hour {
		t.Errorf("JWT expiry = %v, want 168h", cfg.JWT.ExpiresIn)
	}
	if cfg.AMQP.Queue != "mail_jobs" {
		t.Errorf("AMQP queue = %s, want mail_jobs", cfg.AMQP.Queue)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "24h")
	t.Setenv("SMTP_PORT", "587")

	cfg := Load()

	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "test-secret" {
		t.Errorf("JWT secret not read from env")
	}
	if cfg.JWT.ExpiresIn != 24*time.Hour {
		t.Errorf("JWT expiry = %v, want 24h", cfg.JWT.ExpiresIn)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP port = %d, want 587", cfg.SMTP.Port)
	}
}
