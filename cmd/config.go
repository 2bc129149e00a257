package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/enrollboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set enrollboard configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		for _, k := range cfgpkg.Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, configValue(cfg, k))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], strings.TrimSpace(args[1])
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "source_url":
			if val == "" {
				return fmt.Errorf("source_url cannot be empty")
			}
			cfg.SourceURL = val
		case "xlsx_sheet":
			cfg.XLSXSheet = val
		case "listen_addr":
			if val == "" {
				return fmt.Errorf("listen_addr cannot be empty")
			}
			cfg.ListenAddr = val
		case "log_level":
			switch strings.ToLower(val) {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "log_format":
			switch strings.ToLower(val) {
			case "json", "console":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use json|console)", val)
			}
		case "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
			i, err := cast.ToIntE(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			switch key {
			case "http_timeout_sec":
				cfg.HTTPTimeoutSec = i
			case "retry_max_attempts":
				cfg.RetryMaxAttempts = i
			case "retry_base_delay_ms":
				cfg.RetryBaseDelayMs = i
			case "retry_max_delay_ms":
				cfg.RetryMaxDelayMs = i
			}
		default:
			return fmt.Errorf("unknown key: %s (keys: %s)", key, strings.Join(cfgpkg.Keys(), ", "))
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func configValue(c *cfgpkg.Global, key string) string {
	switch key {
	case "source_url":
		return c.SourceURL
	case "xlsx_sheet":
		return c.XLSXSheet
	case "listen_addr":
		return c.ListenAddr
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "http_timeout_sec":
		return cast.ToString(c.HTTPTimeoutSec)
	case "retry_max_attempts":
		return cast.ToString(c.RetryMaxAttempts)
	case "retry_base_delay_ms":
		return cast.ToString(c.RetryBaseDelayMs)
	case "retry_max_delay_ms":
		return cast.ToString(c.RetryMaxDelayMs)
	}
	return ""
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
