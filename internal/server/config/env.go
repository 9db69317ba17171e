package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the server reads.
const EnvPrefix = "ROOMSTATS_"

// envFile is the dotenv file loaded (if present) before reading the
// environment. Existing variables are never overridden by it.
var envFile = ".env"

// parseEnv overlays values from ROOMSTATS_* environment variables.
//
//	ROOMSTATS_ADDR              HTTP bind address
//	ROOMSTATS_DATABASE_DSN      PostgreSQL DSN
//	ROOMSTATS_ROOMS_FILE        rooms JSON file
//	ROOMSTATS_STUDENTS_FILE     students JSON file
//	ROOMSTATS_OUTPUT_DIR        report output directory
//	ROOMSTATS_OUTPUT_FORMAT     json | xml | xlsx
//	ROOMSTATS_LOG_LEVEL         debug | info | warn | error
//	ROOMSTATS_SHUTDOWN_TIMEOUT  e.g. "10s"
//	ROOMSTATS_REDIS_ADDR        host:port, empty disables the cache
//	ROOMSTATS_REDIS_PASSWORD
//	ROOMSTATS_REDIS_DB          integer
//	ROOMSTATS_CACHE_TTL         e.g. "1m"
//	ROOMSTATS_S3_USER, ROOMSTATS_S3_PASSWORD, ROOMSTATS_S3_BUCKET,
//	ROOMSTATS_S3_REGION, ROOMSTATS_S3_ENDPOINT
//
// Malformed numbers or durations panic, as do the other config loaders.
func parseEnv(config *Config) {
	_ = godotenv.Load(envFile)

	strs := map[string]*string{
		"ADDR":           &config.EndpointAddr,
		"DATABASE_DSN":   &config.DatabaseDSN,
		"ROOMS_FILE":     &config.RoomsFile,
		"STUDENTS_FILE":  &config.StudentsFile,
		"OUTPUT_DIR":     &config.OutputDir,
		"OUTPUT_FORMAT":  &config.OutputFormat,
		"LOG_LEVEL":      &config.LogLevel,
		"REDIS_ADDR":     &config.RedisAddr,
		"REDIS_PASSWORD": &config.RedisPassword,
		"S3_USER":        &config.S3RootUser,
		"S3_PASSWORD":    &config.S3RootPassword,
		"S3_BUCKET":      &config.S3Bucket,
		"S3_REGION":      &config.S3Region,
		"S3_ENDPOINT":    &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"SHUTDOWN_TIMEOUT": &config.ShutdownTimeout,
		"CACHE_TTL":        &config.CacheTTL,
	}
	for name, dst := range durations {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("env %s%s: %w", EnvPrefix, name, err))
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("env %sREDIS_DB: %w", EnvPrefix, err))
		}
		config.RedisDB = n
	}
}
