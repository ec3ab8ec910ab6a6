package cli

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/corridor/pkg/errors"
	"github.com/matzehuels/corridor/pkg/pipeline"
)

// Cache backends selectable in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the content of config.toml.
//
//	workers = 8
//	tolerance = 1e-6
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	prefix = "corridor:"
//	ttl = "72h"
//
//	[metrics]
//	textfile = "/var/lib/node_exporter/corridor.prom"
type Config struct {
	Workers   int           `toml:"workers"`
	Tolerance float64       `toml:"tolerance"`
	Cache     CacheConfig   `toml:"cache"`
	Metrics   MetricsConfig `toml:"metrics"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	Prefix    string `toml:"prefix"`
	TTL       string `toml:"ttl"`

	ttl time.Duration
}

// MetricsConfig configures metrics output.
type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Workers:   pipeline.DefaultWorkers,
		Tolerance: pipeline.DefaultTolerance,
		Cache:     CacheConfig{Backend: BackendFile},
	}
}

// LoadConfig reads the config file at path on top of [DefaultConfig]. A
// missing file yields the defaults unless required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and parses the cache TTL.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	if c.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tolerance must not be negative, got %g", c.Tolerance)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of: file, redis, none", c.Cache.Backend)
	}
	if c.Cache.TTL != "" {
		ttl, err := time.ParseDuration(c.Cache.TTL)
		if err != nil || ttl < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl %q is not a duration", c.Cache.TTL)
		}
		c.Cache.ttl = ttl
	}
	return nil
}
