package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/corridor/pkg/buildinfo"
	"github.com/matzehuels/corridor/pkg/cache"
	"github.com/matzehuels/corridor/pkg/observability"
	"github.com/matzehuels/corridor/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "corridor"

	// defaultRedisPrefix scopes redis keys when the config names none.
	defaultRedisPrefix = "corridor:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config

	configPath  string
	metricsPath string
	metrics     *observability.Prometheus
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Corridor evaluates and precomputes habitat connectivity",
		Long: `Corridor computes the equivalent connected area (ECA) of habitat landscapes
and precomputes, for every patch, a reduced landscape that answers flow
queries for any mix of restoration options.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/corridor/config.toml)")
	root.PersistentFlags().StringVar(&c.metricsPath, "metrics", "", "write Prometheus metrics to this textfile")

	// Register all subcommands
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.contractCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and installs metrics hooks before any command runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return err
		}
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "cache", cfg.Cache.Backend)

	if c.metricsPath == "" {
		c.metricsPath = cfg.Metrics.Textfile
	}
	if c.metricsPath != "" {
		c.metrics = observability.NewPrometheus(nil)
		observability.SetPipelineHooks(c.metrics)
		observability.SetCacheHooks(c.metrics)
	}
	return nil
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsPath); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsPath)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == BackendNone {
		return cache.NewNullCache(), nil
	}

	var ch cache.Cache
	switch cfg.Backend {
	case BackendRedis:
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: os.Getenv("CORRIDOR_REDIS_PASSWORD"),
			DB:       cfg.RedisDB,
			Prefix:   prefix,
		})
		if err != nil {
			return nil, err
		}
		ch = rc
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		ch = fc
	}

	if ttl := c.Config.Cache.ttl; ttl > 0 {
		return &ttlCache{Cache: ch, ttl: ttl}, nil
	}
	return ch, nil
}

// ttlCache overrides the expiry the pipeline picks per entry kind.
type ttlCache struct {
	cache.Cache
	ttl time.Duration
}

func (t *ttlCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return t.Cache.Set(ctx, key, data, t.ttl)
}

func (t *ttlCache) Clear(ctx context.Context) (int, error) {
	return cache.Clear(ctx, t.Cache)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the per-user default
// (~/.cache/corridor/ on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// configPath returns the config file location using XDG standard (~/.config/corridor/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds pipeline options with config values. Flags set on
// cmd take precedence.
func (c *CLI) pipelineOptions(cmd *cobra.Command, workers int, tolerance float64) pipeline.Options {
	opts := pipeline.Options{
		Workers:   c.Config.Workers,
		Tolerance: c.Config.Tolerance,
		Logger:    c.Logger,
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = workers
	}
	if cmd.Flags().Changed("tolerance") {
		opts.Tolerance = tolerance
	}
	return opts
}
