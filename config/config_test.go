package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Postgres: PostgresConfig{Host: "localhost", User: "postgres", Password: "postgres", DBName: "parcelpeer"},
		Auth:     AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
		Paystack: PaystackConfig{BaseURL: "https://api.paystack.co", SecretKey: "sk_test"},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no port", func(c *Config) { c.Server.Port = 0 }},
		{"no db user", func(c *Config) { c.Postgres.User = "" }},
		{"no db host", func(c *Config) { c.Postgres.Host = "" }},
		{"no jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"paystack without key", func(c *Config) { c.Paystack.SecretKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_env")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := NewConfig()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Auth.JWTSecret)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "0.0.0.0:9090", cfg.ServerAddr())
	require.Equal(t, 14*24*time.Hour, cfg.Sweeper.DisputeAutoClose)
}

func TestDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	require.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.DSN())
}
