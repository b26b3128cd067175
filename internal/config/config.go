// Package config loads runtime configuration from the environment,
// optionally seeded from a .env file by the binaries.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the server and the mail worker need.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Google GoogleConfig
	AMQP   AMQPConfig
	SMTP   SMTPConfig
}

type ServerConfig struct {
	Port string

	// AppURL is the public base URL used in invitation links.
	AppURL string
}

type DBConfig struct {
	Path string
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type GoogleConfig struct {
	ClientID string
}

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Load reads configuration from environment variables, applying the same
// defaults the service has always shipped with.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("DB_PATH", "./data/splitcash.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", "168h") // 7 days
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "splitcash")
	v.SetDefault("AMQP_QUEUE", "mail_jobs")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("SMTP_FROM", "Split Cash <splitcash@localhost>")

	return &Config{
		Server: ServerConfig{
			Port:   v.GetString("PORT"),
			AppURL: v.GetString("APP_URL"),
		},
		DB: DBConfig{
			Path: v.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: v.GetDuration("JWT_EXPIRES_IN"),
		},
		Google: GoogleConfig{
			ClientID: v.GetString("GOOGLE_CLIENT_ID"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
			Queue:    v.GetString("AMQP_QUEUE"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("SMTP_FROM"),
		},
	}
}
