package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/petsync/internal/flagx"
)

var knownFlags = []string{"-a", "-t", "-id", "-db", "-p", "-l", "-d", "-rps", "-log", "-log-level"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      API base URL
//	-t string      OAuth2 token URL
//	-id string     client id
//	-db string     path of the local cache database
//	-p int         page size
//	-l string      postcode to search around
//	-d int         distance from the postcode
//	-rps float     outbound requests per second (0 = unlimited)
//	-log string    log backend: slog or zap
//	-log-level     log level: debug, info, warn, error
//
// The client secret is deliberately not a flag; use JSON, the environment
// or the interactive prompt.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.TokenURL, "t", cfg.TokenURL, "OAuth2 token URL")
	fs.StringVar(&cfg.ClientID, "id", cfg.ClientID, "client id")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "local cache database path")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "page size")
	fs.StringVar(&cfg.Postcode, "l", cfg.Postcode, "postcode to search around")
	fs.IntVar(&cfg.Distance, "d", cfg.Distance, "distance from the postcode")
	fs.Float64Var(&cfg.RequestsPerSecond, "rps", cfg.RequestsPerSecond, "outbound requests per second (0 = unlimited)")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "log backend: slog or zap")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
