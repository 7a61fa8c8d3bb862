package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Role loader strategies accepted by RoleLoader.
const (
	RoleLoaderPerUser = "per-user"
	RoleLoaderJoined  = "joined"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	ShutdownTimeout      time.Duration
	RoleLoader           string
	RoleFetchConcurrency int
	LogLevel             string
}

const (
	defaultRunAddress           = ":8080"
	defaultShutdownTimeout      = 10 * time.Second
	defaultRoleLoader           = RoleLoaderPerUser
	defaultRoleFetchConcurrency = 8
	defaultLogLevel             = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RoleLoader:           getString(lookup, "ROLE_LOADER", defaultRoleLoader),
		RoleFetchConcurrency: getInt(lookup, "ROLE_FETCH_CONCURRENCY", defaultRoleFetchConcurrency),
		LogLevel:             getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("usersvc", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	shutdownTimeoutStr := cfg.ShutdownTimeout.String()

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.RoleLoader, "role-loader", cfg.RoleLoader, "Role population strategy: per-user or joined")
	fs.IntVar(&cfg.RoleFetchConcurrency, "role-concurrency", cfg.RoleFetchConcurrency, "Maximum concurrent per-user role queries")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RoleFetchConcurrency <= 0 {
		cfg.RoleFetchConcurrency = defaultRoleFetchConcurrency
	}

	cfg.RoleLoader = strings.ToLower(strings.TrimSpace(cfg.RoleLoader))
	switch cfg.RoleLoader {
	case RoleLoaderPerUser, RoleLoaderJoined:
	default:
		return nil, fmt.Errorf("invalid role loader %q", cfg.RoleLoader)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
