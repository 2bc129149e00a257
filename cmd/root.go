package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/enrollboard/internal/config"
	"github.com/KaramelBytes/enrollboard/internal/dataset"
	"github.com/KaramelBytes/enrollboard/internal/logging"
	"github.com/KaramelBytes/enrollboard/internal/source"
)

var (
	cfgFile    string
	debug      bool
	flagSource string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Built in PersistentPreRunE
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "enrollboard",
	Short: "Enrollment dashboard over school enrollment open data",
	Long: `enrollboard loads the department-level school enrollment dataset (preschool,
primary and secondary) and serves KPIs, yearly trends, department rankings, age
splits and correlations, either in the terminal or over a JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		level := c.LogLevel
		if debug {
			level = "debug"
		}
		l, err := logging.New(level, c.LogFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.enrollboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "dataset URL or local .json/.csv/.tsv/.xlsx file (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max attempts on 429/5xx and network errors (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("source") && flagSource != "" {
		cfg.SourceURL = flagSource
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// currentConfig returns the loaded config, or defaults when loading failed.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c := &cfgpkg.Global{SourceURL: cfgpkg.DefaultSourceURL, ListenAddr: ":8080", LogLevel: "info", LogFormat: "console"}
	if flagSource != "" {
		c.SourceURL = flagSource
	}
	return c
}

func newSource() source.Remote {
	c := currentConfig()
	f := source.NewFetcher(source.Options{
		Timeout:          time.Duration(c.HTTPTimeoutSec) * time.Second,
		RetryMaxAttempts: c.RetryMaxAttempts,
		RetryBaseDelay:   time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		RetryMaxDelay:    time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
		Sheet:            c.XLSXSheet,
	})
	return source.Remote{Fetcher: f, Location: c.SourceURL}
}

// loadDataset loads once for one-shot commands. Failures degrade to an empty dataset.
func loadDataset(cmd *cobra.Command) *dataset.Dataset {
	ds := dataset.Load(cmd.Context(), newSource(), logger)
	if ds.IsEmpty() {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: no records loaded from %s\n", ds.Source)
	}
	return ds
}
