package config

import (
	"encoding/json"
	"os"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/flagx"
)

// JsonConfig is the on-disk shape of the configuration file. Every field is
// optional; only the ones present override the current values.
type JsonConfig struct {
	EndpointAddrHTTP     *string   `json:"endpoint_addr_http"`
	DatabaseDriver       *string   `json:"database_driver"`
	DatabaseDSN          *string   `json:"database_dsn"`
	DatabasePassword     *string   `json:"database_password"`
	SecretKey            *string   `json:"secret_key"`
	PreviousSecretKeys   []string  `json:"previous_secret_keys"`
	VerificationTokenTTL *Duration `json:"verification_token_ttl"`
	SessionTTL           *Duration `json:"session_ttl"`
	PublicBaseURL        *string   `json:"public_base_url"`
	SMTPHost             *string   `json:"smtp_host"`
	SMTPPort             *int      `json:"smtp_port"`
	SMTPUser             *string   `json:"smtp_user"`
	SMTPPassword         *string   `json:"smtp_password"`
	SMTPFrom             *string   `json:"smtp_from"`
	RedisAddr            *string   `json:"redis_addr"`
	RedisPassword        *string   `json:"redis_password"`
	LogLevel             *string   `json:"log_level"`
	LogFormat            *string   `json:"log_format"`
}

// parseJson overlays values from the file named by -c/-config (or CONFIG).
// A missing or malformed file is a start-up error, so it panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DatabasePassword, c.DatabasePassword)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SMTPFrom, c.SMTPFrom)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.SMTPPort != nil {
		config.SMTPPort = *c.SMTPPort
	}
	if c.PreviousSecretKeys != nil {
		config.PreviousSecretKeys = c.PreviousSecretKeys
	}
	if c.VerificationTokenTTL != nil {
		config.VerificationTokenTTL = c.VerificationTokenTTL.Duration
	}
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
