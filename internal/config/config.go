package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// CacheDir holds every pipeline artifact: raw archives, extracted
	// workbooks and processed variant tables.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	// Nomis statistical API (principal variant source).
	NomisBaseURL string `mapstructure:"nomis_base_url" yaml:"nomis_base_url"`
	NomisAPIKey  string `mapstructure:"nomis_api_key" yaml:"nomis_api_key"`

	// ArchiveURLs overrides the published per-country variant archive
	// locations, keyed by country identifier (en, wa, sc, ni).
	ArchiveURLs map[string]string `mapstructure:"archive_urls" yaml:"archive_urls,omitempty"`

	// HTTPTimeoutSec bounds every download; the variant archives run to
	// tens of megabytes, so the default is generous.
	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.ukproj/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".ukproj")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("UKPROJ")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cache_dir", "./raw_data")
	v.SetDefault("nomis_base_url", "")
	v.SetDefault("nomis_api_key", "")
	v.SetDefault("http_timeout_sec", 300)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".ukproj")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
