// Package config handles configuration for the HTTP server: defaults, an
// optional JSON file, environment variables, and command-line flags, applied
// in that order.
package config

import (
	"net/url"
	"strings"
	"time"
)

// Config holds runtime settings for the user-account service.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "pgx" (PostgreSQL) or "sqlite" plus its DSN.
//   - DatabasePassword: merged into a PostgreSQL DSN that carries no password.
//   - SecretKey: HMAC secret for session cookies and verification tokens.
//   - PreviousSecretKeys: retired secrets still accepted when reading sessions.
//   - VerificationTokenTTL / SessionTTL: token lifetimes.
//   - PublicBaseURL: prefix of the link mailed to new registrations.
//   - SMTP*: outgoing mail settings.
//   - RedisAddr: when set, consumed verification tokens are tracked in Redis.
type Config struct {
	EndpointAddrHTTP     string
	DatabaseDriver       string
	DatabaseDSN          string
	DatabasePassword     string
	SecretKey            string
	PreviousSecretKeys   []string
	VerificationTokenTTL time.Duration
	SessionTTL           time.Duration
	PublicBaseURL        string
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	SMTPFrom             string
	RedisAddr            string
	RedisPassword        string
	LogLevel             string
	LogFormat            string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.DatabaseDriver = "pgx"
	c.DatabaseDSN = "postgres://postgres@localhost:5432/testdb?sslmode=disable"
	c.SecretKey = "secretKey"
	c.VerificationTokenTTL = time.Hour
	c.SessionTTL = 24 * time.Hour
	c.PublicBaseURL = "http://localhost:3000"
	c.SMTPHost = "smtp.ethereal.email"
	c.SMTPPort = 587
	c.SMTPFrom = "no-reply@localhost"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then the optional JSON file,
// then environment variables and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// DSN returns DatabaseDSN with DatabasePassword merged in when the DSN is a
// postgres URL without a password of its own.
func (c *Config) DSN() string {
	if c.DatabasePassword == "" {
		return c.DatabaseDSN
	}
	if !strings.HasPrefix(c.DatabaseDSN, "postgres://") && !strings.HasPrefix(c.DatabaseDSN, "postgresql://") {
		return c.DatabaseDSN
	}

	u, err := url.Parse(c.DatabaseDSN)
	if err != nil || u.User == nil {
		return c.DatabaseDSN
	}
	if _, set := u.User.Password(); set {
		return c.DatabaseDSN
	}

	u.User = url.UserPassword(u.User.Username(), c.DatabasePassword)
	return u.String()
}

// SigningKeys lists the secrets accepted for session cookies and verification
// links, current first. Only the first one signs.
func (c *Config) SigningKeys() [][]byte {
	keys := make([][]byte, 0, 1+len(c.PreviousSecretKeys))
	keys = append(keys, []byte(c.SecretKey))
	for _, k := range c.PreviousSecretKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}
	return keys
}
