package config

import (
	"flag"
	"os"
	"time"

	"github.com/soham-jobanputra-prominentpixel/auth-backend/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-D string   database driver ("pgx" or "sqlite")
//	-d string   database DSN
//	-s string   HMAC secret key
//	-t int      verification token validity, minutes
//	-e int      session validity, minutes
//	-u string   public base URL used in verification links
//	-r string   Redis address for consumed-token tracking
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-D", "-d", "-s", "-t", "-e", "-u", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	verificationTTL := fs.Int("t", int(config.VerificationTokenTTL.Minutes()), "verification token validity (in minutes)")
	sessionTTL := fs.Int("e", int(config.SessionTTL.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.PublicBaseURL, "u", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.VerificationTokenTTL = time.Duration(*verificationTTL) * time.Minute
	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
