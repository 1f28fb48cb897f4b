// Command ls-sky reports where the Sun, Moon, planets and their moons sit in
// an observer's sky, with a live terminal view for watching them move.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-sky/internal/cache"
	"github.com/litescript/ls-sky/internal/config"
	"github.com/litescript/ls-sky/internal/ephem"
	"github.com/litescript/ls-sky/internal/logging"
	"github.com/litescript/ls-sky/internal/metrics"
	"github.com/litescript/ls-sky/internal/report"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/version"
)

// app carries everything a command needs once configuration is resolved.
type app struct {
	out io.Writer

	configFile string
	timeFlag   string
	jsonOut    bool
	plain      bool

	cfg       config.Config
	logger    *logging.Logger
	metrics   *metrics.Metrics
	dataset   *ephem.Dataset
	cache     *cache.Cache
	engine    *sky.Engine
	metricSrv *http.Server
}

// flagKeys binds command-line flags to configuration keys.
var flagKeys = map[string]string{
	"lat":           config.KeyLatitude,
	"lon":           config.KeyLongitude,
	"elev":          config.KeyElevation,
	"cache-dir":     config.KeyCacheDir,
	"cache-backend": config.KeyCacheBackend,
	"source":        config.KeySource,
	"vsop87-dir":    config.KeyVSOP87Dir,
	"exclude":       config.KeyExclude,
	"log-level":     config.KeyLogLevel,
	"log-format":    config.KeyLogFormat,
	"refresh":       config.KeyRefresh,
	"metrics-addr":  config.KeyMetricsAddr,
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	d := config.Default()

	root := &cobra.Command{
		Use:           "ls-sky",
		Short:         "Celestial positions and visibility for an observer",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./ls-sky.yaml or ~/.config/ls-sky/ls-sky.yaml)")
	pf.Float64("lat", d.Observer.Latitude, "observer latitude in degrees")
	pf.Float64("lon", d.Observer.Longitude, "observer longitude in degrees")
	pf.Float64("elev", d.Observer.Elevation, "observer elevation in meters")
	pf.StringVarP(&a.timeFlag, "time", "t", "", "observation instant, ISO 8601 (default now)")
	pf.BoolVar(&a.jsonOut, "json", false, "write JSON instead of a table")
	pf.BoolVar(&a.plain, "plain", false, "disable colours")
	pf.String("cache-dir", d.Cache.Dir, "cache directory")
	pf.String("cache-backend", d.Cache.Backend, "cache backend: file or memory")
	pf.Bool("no-cache", false, "disable result caching")
	pf.String("source", d.Ephemeris.Source, "ephemeris source: auto, analytic or vsop87")
	pf.String("vsop87-dir", "", "directory holding VSOP87B files")
	pf.StringSlice("exclude", nil, "bodies to leave out")
	pf.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	pf.String("log-format", d.Log.Format, "log format: text, json, logfmt")
	pf.Duration("refresh", d.Refresh, "watch refresh interval")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		a.bodiesCmd(),
		a.bodyCmd(),
		a.moonCmd(),
		a.twilightCmd(),
		a.neoCmd(),
		a.helioCmd(),
		a.metaCmd(),
		a.cacheCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	v := config.NewViper(a.configFile)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	if err := config.ReadFile(v); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger()
	a.metrics = metrics.New()

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}

	a.cache, err = a.openCache()
	if err != nil {
		return err
	}

	a.dataset, err = ephem.LoadShared(cfg.DatasetOptions(a.logger))
	if err != nil {
		return fmt.Errorf("load ephemeris: %w", err)
	}
	a.engine, err = a.newEngine(a.cache)
	return err
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.Flags()
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	if f := flags.Lookup("no-cache"); f != nil && f.Changed {
		v.Set(config.KeyCacheEnabled, false)
	}
	return nil
}

func (a *app) openCache() (*cache.Cache, error) {
	cc := a.cfg.Cache
	if !cc.Enabled {
		return nil, nil
	}

	var store cache.Store
	switch cc.Backend {
	case config.BackendMemory:
		store = cache.NewMemoryStore()
	default:
		fs, err := cache.NewFileStore(cc.Dir, cc.Compress)
		if err != nil {
			// Results are still correct without a cache.
			a.logger.Warn("cache unavailable, continuing without it: %v", err)
			return nil, nil
		}
		store = fs
	}
	return cache.New(store, cache.WithLogger(a.logger.With("component", "cache")), cache.WithRecorder(a.metrics)), nil
}

func (a *app) newEngine(c *cache.Cache) (*sky.Engine, error) {
	return sky.New(sky.Config{
		Provider:    a.dataset,
		Cache:       c,
		Recorder:    a.metrics,
		Logger:      a.logger.With("component", "engine"),
		Version:     version.Version,
		PositionTTL: a.cfg.Cache.PositionTTL,
		UtilityTTL:  a.cfg.Cache.UtilityTTL,
	})
}

func (a *app) serveMetrics(addr string) {
	a.metricSrv = &http.Server{
		Addr:              addr,
		Handler:           a.metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("serving metrics on %s", addr)
		if err := a.metricSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server: %v", err)
		}
	}()
}

func (a *app) teardown(ctx context.Context) error {
	if a.metricSrv == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.metricSrv.Shutdown(ctx)
}

// instant resolves --time, defaulting to now.
func (a *app) instant() (time.Time, error) {
	t, err := sky.ParseInstant(a.timeFlag)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t, nil
}

func (a *app) writer() *report.Writer {
	styled := false
	if f, ok := a.out.(*os.File); ok && !a.plain {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return report.NewWriter(a.out, styled)
}

func (a *app) emit(v any, table func(w *report.Writer)) error {
	if a.jsonOut {
		return report.WriteJSON(a.out, v)
	}
	table(a.writer())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, sky.ErrInvalidInput) {
		os.Exit(2)
	}
	os.Exit(1)
}
