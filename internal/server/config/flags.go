package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/flagx"
)

var serverFlags = flagx.Set{
	"a": true, "g": true, "d": true, "s": true, "t": true, "b": true, "z": true, "p": true,
	"secure": false, "seed-admin": false, "v": false,
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC health bind address (e.g., ":50051")
//	-d string     PostgreSQL DSN
//	-s string     session cookie HMAC secret key
//	-t int        session lifetime, minutes
//	-b int        bcrypt cost
//	-z int        random token size, bytes
//	-p int        reconciliation parallelism
//	-secure       mark the session cookie Secure
//	-seed-admin   create the admin user if missing
//	-v            debug logging
//
// Arguments are filtered through serverFlags first so the -c/-config flag
// handled by parseJson does not trip the parser.
func parseFlags(config *Config) {
	args := serverFlags.Filter(os.Args[1:])

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session_ttl (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.IntVar(&config.TokenSize, "z", config.TokenSize, "random token size in bytes")
	fs.IntVar(&config.ReconcileParallelism, "p", config.ReconcileParallelism, "reconciliation parallelism")
	fs.BoolVar(&config.CookieSecure, "secure", config.CookieSecure, "secure session cookie")
	fs.BoolVar(&config.SeedAdmin, "seed-admin", config.SeedAdmin, "create admin user on startup")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
