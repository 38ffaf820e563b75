package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays values from environment variables. Unset variables leave
// the current value alone; unparsable numbers and durations are ignored.
func parseEnv(config *Config) {
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDriver, "DATABASE_DRIVER")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.DatabasePassword, "DATABASE_PASSWORD")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.PublicBaseURL, "PUBLIC_BASE_URL")
	envString(&config.SMTPHost, "SMTP_HOST")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASSWORD")
	envString(&config.SMTPFrom, "SMTP_FROM")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.LogFormat, "LOG_FORMAT")

	if v, ok := os.LookupEnv("SMTP_PORT"); ok {
		if port, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			config.SMTPPort = port
		}
	}
	if v, ok := os.LookupEnv("PREVIOUS_SECRET_KEYS"); ok {
		config.PreviousSecretKeys = splitList(v)
	}
	envDuration(&config.VerificationTokenTTL, "VERIFICATION_TOKEN_TTL")
	envDuration(&config.SessionTTL, "SESSION_TTL")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
		*dst = d
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
