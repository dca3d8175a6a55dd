package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkarasev/zkid/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-redis string  Redis address
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-ttl int    challenge TTL, seconds
//	-workers int   worker-pool size
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-redis", "-s", "-t", "-ttl", "-workers"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")

	accessTokenValidityMinutes := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	challengeTTLSeconds := fs.Int("ttl", int(config.ChallengeTTL.Seconds()), "challenge_ttl (in seconds)")
	fs.IntVar(&config.WorkerPoolSize, "workers", config.WorkerPoolSize, "modPow worker-pool size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityMinutes) * time.Minute
	config.ChallengeTTL = time.Duration(*challengeTTLSeconds) * time.Second
}
