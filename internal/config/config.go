// Package config reads server settings from flags, with defaults taken
// from the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr          string
	AllowOrigins  string
	MatchInterval time.Duration
	LogLevel      log.Level
}

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load parses args (without the program name). getenv supplies the
// defaults, so tests can pass a map lookup instead of os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", env("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allow-origins", env("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins")
	interval := fs.String("match-interval", env("CHESS_MATCH_INTERVAL", "1s"), "how often queued players are paired")
	level := fs.String("log-level", env("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected arguments %q", ErrInvalidConfig, fs.Args())
	}

	cfg := Config{
		Addr:         *addr,
		AllowOrigins: *origins,
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}

	d, err := time.ParseDuration(*interval)
	if err != nil {
		return Config{}, fmt.Errorf("%w: match interval: %v", ErrInvalidConfig, err)
	}
	if d <= 0 {
		return Config{}, fmt.Errorf("%w: match interval must be positive, got %s", ErrInvalidConfig, d)
	}
	cfg.MatchInterval = d

	lvl, ok := logLevels[strings.ToLower(*level)]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, *level)
	}
	cfg.LogLevel = lvl
	return cfg, nil
}
