package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/roomstats/internal/flagx"
	"github.com/dmitrijs2005/roomstats/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields use timex.Duration so both "10s" and integer nanoseconds are valid.
type JsonConfig struct {
	EndpointAddr    string          `json:"endpoint_addr"`
	DatabaseDSN     string          `json:"database_dsn"`
	RoomsFile       string          `json:"rooms_file"`
	StudentsFile    string          `json:"students_file"`
	OutputDir       string          `json:"output_dir"`
	OutputFormat    string          `json:"output_format"`
	LogLevel        string          `json:"log_level"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	RedisAddr       string          `json:"redis_addr"`
	RedisPassword   string          `json:"redis_password"`
	RedisDB         *int            `json:"redis_db"`
	CacheTTL        *timex.Duration `json:"cache_ttl"`
	S3RootUser      string          `json:"s3_root_user"`
	S3RootPassword  string          `json:"s3_root_password"`
	S3Bucket        string          `json:"s3_bucket"`
	S3Region        string          `json:"s3_region"`
	S3BaseEndpoint  string          `json:"s3_base_endpoint"`
}

// parseJson loads values from the JSON file named by -c / -config into
// config. Only keys present in the file override existing values. A missing
// flag means no file is read; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RoomsFile, c.RoomsFile)
	setString(&config.StudentsFile, c.StudentsFile)
	setString(&config.OutputDir, c.OutputDir)
	setString(&config.OutputFormat, c.OutputFormat)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.CacheTTL != nil {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
