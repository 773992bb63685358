package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborstats/ukproj/internal/cache"
	cfgpkg "github.com/harborstats/ukproj/internal/config"
	"github.com/harborstats/ukproj/internal/fetch"
	"github.com/harborstats/ukproj/internal/nomis"
	"github.com/harborstats/ukproj/internal/pipeline"
	"github.com/harborstats/ukproj/internal/query"
)

var (
	// Global flags (wired to config after load)
	cfgFile  string
	debug    bool
	cacheDir string
	// HTTP flag (overrides config if set)
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "ukproj",
	Short: "ukproj: UK national population projections, all variants, one table format",
	Long: `ukproj downloads and normalizes the ONS 2016-based national population
projections. The principal variant comes from the Nomis statistical API; the
fourteen other variants are assembled from the published per-country zip
archives, cached locally, and served through filter, aggregate and ratio
queries.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.ukproj/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable progress output")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "pipeline cache directory (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("cache-dir") && cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
}

// newEngine wires the whole stack: cache store, fetcher, Nomis client,
// variant store (which eagerly loads the principal variant) and query
// engine. Commands that touch projection data call this once.
func newEngine(ctx context.Context) (*query.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	cs, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	api := nomis.New(cfg.NomisBaseURL, cfg.NomisAPIKey, cfg.CacheDir, timeout)

	progress := io.Discard
	if debug {
		progress = os.Stderr
	}
	store, err := pipeline.NewStore(ctx, cs, fetch.New(timeout), api, pipeline.Options{
		ArchiveURLs: cfg.ArchiveURLs,
		Progress:    progress,
	})
	if err != nil {
		return nil, err
	}
	return query.New(store, os.Stderr), nil
}
