package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/voicevault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address of the HTTP API
//	-d string   PostgreSQL connection string
//	-s string   JWT signing secret
//	-g string   mint a device token for the given owner id and exit
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL connection string")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT signing secret")
	fs.StringVar(&cfg.MintTokenFor, "g", cfg.MintTokenFor, "mint a device token for the given owner id and exit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
