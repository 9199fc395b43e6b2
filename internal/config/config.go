package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Addr      string
	LogLevel  string
	LogDev    bool
	PublicURL string
	// DatabaseURL selects postgres round history; empty keeps it in memory.
	DatabaseURL string
	// NatsURL enables the event relay.
	NatsURL          string
	SlapCooldown     time.Duration
	MaxPlayers       int
	MinValueCounter  bool
	LobbyIdleTimeout time.Duration
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, reporting every invalid variable.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	p := parser{lookup: lookup}
	cfg := Config{
		Addr:             p.str("ADDR", ":8080"),
		LogLevel:         p.str("LOG_LEVEL", "info"),
		LogDev:           p.bool("LOG_DEV", false),
		PublicURL:        p.str("PUBLIC_URL", "http://localhost:8080"),
		DatabaseURL:      p.str("DATABASE_URL", ""),
		NatsURL:          p.str("NATS_URL", ""),
		SlapCooldown:     p.duration("SLAP_COOLDOWN", engine.SlapCooldown),
		MaxPlayers:       p.int("MAX_PLAYERS", engine.MaxPlayers),
		MinValueCounter:  p.bool("MIN_VALUE_COUNTER", false),
		LobbyIdleTimeout: p.duration("LOBBY_IDLE_TIMEOUT", 5*time.Minute),
	}

	if cfg.MaxPlayers < 2 || cfg.MaxPlayers > engine.MaxPlayers {
		p.fail("MAX_PLAYERS", strconv.Itoa(cfg.MaxPlayers), fmt.Errorf("must be between 2 and %d", engine.MaxPlayers))
	}
	if cfg.SlapCooldown < 0 {
		p.fail("SLAP_COOLDOWN", cfg.SlapCooldown.String(), errors.New("must not be negative"))
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

func (c Config) Rules() engine.Rules {
	return engine.Rules{
		MaxPlayers:      c.MaxPlayers,
		SlapCooldown:    c.SlapCooldown,
		MinValueCounter: c.MinValueCounter,
	}
}

type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) fail(key, raw string, err error) {
	p.err = multierr.Append(p.err, fmt.Errorf("%s=%q: %w", key, raw, err))
}

func (p *parser) str(key, def string) string {
	if v, ok := p.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (p *parser) bool(key string, def bool) bool {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) int(key string, def int) int {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}
