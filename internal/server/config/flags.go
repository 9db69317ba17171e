package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/roomstats/internal/flagx"
)

var knownFlags = []string{
	"-a", "-d", "-r", "-s", "-o", "-f", "-l",
	"-redis", "-redis-password", "-redis-db", "-t",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g. ":5050")
//	-d string          PostgreSQL DSN
//	-r string          rooms JSON file
//	-s string          students JSON file
//	-o string          report output directory
//	-f string          report output format: json, xml or xlsx
//	-l string          log level
//	-redis string      Redis address for the report cache
//	-redis-password    Redis password
//	-redis-db int      Redis database number
//	-t int             report cache TTL, seconds
//	-u string          S3 user
//	-p string          S3 password
//	-b string          S3 bucket for report mirroring
//	-g string          S3 region
//	-e string          S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//
// os.Args is filtered through flagx.FilterArgs first so -c/-config and
// anything unknown do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RoomsFile, "r", config.RoomsFile, "rooms JSON file")
	fs.StringVar(&config.StudentsFile, "s", config.StudentsFile, "students JSON file")
	fs.StringVar(&config.OutputDir, "o", config.OutputDir, "report output directory")
	fs.StringVar(&config.OutputFormat, "f", config.OutputFormat, "report output format (json, xml, xlsx)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address, empty disables the report cache")
	fs.StringVar(&config.RedisPassword, "redis-password", config.RedisPassword, "redis password")
	fs.IntVar(&config.RedisDB, "redis-db", config.RedisDB, "redis database number")
	cacheTTL := fs.Int("t", int(config.CacheTTL.Seconds()), "report cache TTL (in seconds)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket, empty disables report mirroring")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only overrides when given, so a sub-second TTL from env or JSON
	// survives.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.CacheTTL = time.Duration(*cacheTTL) * time.Second
		}
	})
}
