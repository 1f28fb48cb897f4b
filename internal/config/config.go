// Package config resolves settings from defaults, an optional config file,
// LS_SKY_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-sky/internal/ephem"
	"github.com/litescript/ls-sky/internal/logging"
	"github.com/litescript/ls-sky/internal/sky"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "LS_SKY"

// Refresh bounds for watch mode.
const (
	MinRefresh = time.Second
	MaxRefresh = 5 * time.Minute
)

// Setting keys.
const (
	KeyLatitude      = "observer.latitude"
	KeyLongitude     = "observer.longitude"
	KeyElevation     = "observer.elevation"
	KeyCacheEnabled  = "cache.enabled"
	KeyCacheDir      = "cache.dir"
	KeyCacheBackend  = "cache.backend"
	KeyCacheCompress = "cache.compress"
	KeyPositionTTL   = "cache.position_ttl"
	KeyUtilityTTL    = "cache.utility_ttl"
	KeyVSOP87Dir     = "ephemeris.vsop87_dir"
	KeySource        = "ephemeris.source"
	KeyExclude       = "ephemeris.exclude"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyRefresh       = "refresh"
	KeyMetricsAddr   = "metrics.addr"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Observer is the default observing site.
type Observer struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Elevation float64 `mapstructure:"elevation"`
}

// Cache configures result caching.
type Cache struct {
	Enabled     bool          `mapstructure:"enabled"`
	Dir         string        `mapstructure:"dir"`
	Backend     string        `mapstructure:"backend"`
	Compress    bool          `mapstructure:"compress"`
	PositionTTL time.Duration `mapstructure:"position_ttl"`
	UtilityTTL  time.Duration `mapstructure:"utility_ttl"`
}

// Ephemeris configures the dataset.
type Ephemeris struct {
	Source    string   `mapstructure:"source"`
	VSOP87Dir string   `mapstructure:"vsop87_dir"`
	Exclude   []string `mapstructure:"exclude"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Config is the resolved configuration.
type Config struct {
	Observer  Observer      `mapstructure:"observer"`
	Cache     Cache         `mapstructure:"cache"`
	Ephemeris Ephemeris     `mapstructure:"ephemeris"`
	Log       Log           `mapstructure:"log"`
	Refresh   time.Duration `mapstructure:"refresh"`
	Metrics   Metrics       `mapstructure:"metrics"`
}

// DefaultCacheDir returns $XDG_CACHE_HOME/ls-sky, falling back to the
// user cache dir and finally .cache/ls-sky.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ls-sky")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "ls-sky")
	}
	return filepath.Join(".cache", "ls-sky")
}

// Default returns the built-in configuration. The observer defaults to
// New York City.
func Default() Config {
	return Config{
		Observer: Observer{Latitude: 40.7128, Longitude: -74.0060},
		Cache: Cache{
			Enabled:     true,
			Dir:         DefaultCacheDir(),
			Backend:     BackendFile,
			Compress:    true,
			PositionTTL: 300 * time.Second,
			UtilityTTL:  3600 * time.Second,
		},
		Ephemeris: Ephemeris{Source: ephem.SourceAuto.String()},
		Log:       Log{Level: "info", Format: string(logging.FormatText)},
		Refresh:   5 * time.Second,
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyLatitude, d.Observer.Latitude)
	v.SetDefault(KeyLongitude, d.Observer.Longitude)
	v.SetDefault(KeyElevation, d.Observer.Elevation)
	v.SetDefault(KeyCacheEnabled, d.Cache.Enabled)
	v.SetDefault(KeyCacheDir, d.Cache.Dir)
	v.SetDefault(KeyCacheBackend, d.Cache.Backend)
	v.SetDefault(KeyCacheCompress, d.Cache.Compress)
	v.SetDefault(KeyPositionTTL, d.Cache.PositionTTL)
	v.SetDefault(KeyUtilityTTL, d.Cache.UtilityTTL)
	v.SetDefault(KeySource, d.Ephemeris.Source)
	v.SetDefault(KeyVSOP87Dir, d.Ephemeris.VSOP87Dir)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyRefresh, d.Refresh)
	v.SetDefault(KeyMetricsAddr, d.Metrics.Addr)
}

// NewViper returns a viper instance with defaults, environment binding and
// the config search path set. configFile overrides the search when set.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		return v
	}
	v.SetConfigName("ls-sky")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ls-sky"))
	}
	return v
}

// ReadFile reads the config file if one is present. A miss in the search
// path is not an error.
func ReadFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// Comma-separated env values arrive as one element.
	cfg.Ephemeris.Exclude = splitList(cfg.Ephemeris.Exclude)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Refresh = ClampRefresh(cfg.Refresh)
	return cfg, nil
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ClampRefresh bounds a watch refresh interval to [MinRefresh, MaxRefresh].
func ClampRefresh(d time.Duration) time.Duration {
	switch {
	case d < MinRefresh:
		return MinRefresh
	case d > MaxRefresh:
		return MaxRefresh
	default:
		return d
	}
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	q := sky.Query{
		Latitude:  c.Observer.Latitude,
		Longitude: c.Observer.Longitude,
		Elevation: c.Observer.Elevation,
	}
	if err := q.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendMemory:
	default:
		return &sky.InvalidInputError{Field: KeyCacheBackend, Value: c.Cache.Backend, Reason: "must be file or memory"}
	}
	if c.Cache.Enabled && c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		return &sky.InvalidInputError{Field: KeyCacheDir, Reason: "required for the file backend"}
	}
	if c.Cache.PositionTTL <= 0 || c.Cache.UtilityTTL <= 0 {
		return &sky.InvalidInputError{Field: "cache ttl", Value: fmt.Sprintf("%s/%s", c.Cache.PositionTTL, c.Cache.UtilityTTL), Reason: "must be positive"}
	}
	switch src := strings.ToLower(strings.TrimSpace(c.Ephemeris.Source)); src {
	case "", ephem.SourceAuto.String(), ephem.SourceAnalytic.String(), ephem.SourceVSOP87.String():
	default:
		return &sky.InvalidInputError{Field: KeySource, Value: c.Ephemeris.Source, Reason: "must be auto, analytic or vsop87"}
	}
	for _, name := range c.Ephemeris.Exclude {
		if _, ok := ephem.Lookup(name); !ok {
			return &sky.InvalidInputError{Field: KeyExclude, Value: name, Reason: "not in catalog"}
		}
	}
	return nil
}

// Logger builds the configured logger.
func (c Config) Logger() *logging.Logger {
	return logging.NewWithWriter(os.Stderr, logging.ParseLevel(c.Log.Level), logging.ParseFormat(c.Log.Format))
}

// Query returns a query for the configured observer at instant.
func (c Config) Query(instant time.Time) sky.Query {
	return sky.Query{
		Latitude:  c.Observer.Latitude,
		Longitude: c.Observer.Longitude,
		Elevation: c.Observer.Elevation,
		Instant:   instant,
	}
}

// DatasetOptions maps the ephemeris settings onto dataset load options.
func (c Config) DatasetOptions(logger *logging.Logger) ephem.Options {
	return ephem.Options{
		Source:    ephem.ParseSource(c.Ephemeris.Source),
		VSOP87Dir: c.Ephemeris.VSOP87Dir,
		Exclude:   c.Ephemeris.Exclude,
		Logger:    logger,
	}
}
