package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = "8080"
	defaultCacheTTL = 10 * time.Minute
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// StrictNotFound reports unknown quizzes and questions as 404 instead of 500.
		StrictNotFound bool `yaml:"strict_not_found"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// TTL expires answer, result and quiz records. Empty keeps them.
		TTL string `yaml:"ttl"`
	} `yaml:"redis"`
	Quiz struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"quiz"`
}

// Default is the configuration used for keys the file leaves out.
func Default() Config {
	var cfg Config
	cfg.Server.Port = defaultPort
	cfg.Quiz.CacheTTL = defaultCacheTTL.String()
	return cfg
}

// Load overlays the YAML file at path on Default and rejects bad durations.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parseDuration("redis.ttl", c.Redis.TTL); err != nil {
		return err
	}
	_, err := parseDuration("quiz.cache_ttl", c.Quiz.CacheTTL)
	return err
}

// ListenPort picks the override (flag or env) first, then the file, then the default.
func (c Config) ListenPort(override string) string {
	switch {
	case override != "":
		return override
	case c.Server.Port != "":
		return c.Server.Port
	default:
		return defaultPort
	}
}

// RedisTTL is zero when records should not expire.
func (c Config) RedisTTL() time.Duration {
	d, err := parseDuration("redis.ttl", c.Redis.TTL)
	if err != nil {
		return 0
	}
	return d
}

func (c Config) QuizCacheTTL() time.Duration {
	d, err := parseDuration("quiz.cache_ttl", c.Quiz.CacheTTL)
	if err != nil || c.Quiz.CacheTTL == "" {
		return defaultCacheTTL
	}
	return d
}

func parseDuration(key, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, raw)
	}
	return d, nil
}
