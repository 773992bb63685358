package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/harborstats/ukproj/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ukproj configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("cache_dir: %s\n", cfg.CacheDir)
		if cfg.NomisBaseURL != "" {
			fmt.Printf("nomis_base_url: %s\n", cfg.NomisBaseURL)
		}
		fmt.Printf("nomis_api_key: %s\n", mask(cfg.NomisAPIKey))
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		for geog, u := range cfg.ArchiveURLs {
			fmt.Printf("archive_urls.%s: %s\n", geog, u)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "cache_dir":
			cfg.CacheDir = val
		case "nomis_base_url":
			cfg.NomisBaseURL = val
		case "nomis_api_key":
			cfg.NomisAPIKey = val
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
