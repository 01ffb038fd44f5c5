package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/salescrub/internal/config"
	"github.com/KaramelBytes/salescrub/internal/logging"
	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration and process logger
	cfg    *cfgpkg.Global
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "salescrub",
	Short: "salescrub: audit and prepare raw sales, customer and product extracts",
	Long: `salescrub checks raw CSV extracts for consistency (missing values, duplicate rows,
column kinds, outliers) and runs the configured cleaning pipelines that turn them into
prepared files.`,
	SilenceUsage: true,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.salescrub/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{DataDir: "data", RawDir: "data/raw", PreparedDir: "data/prepared", LogLevel: "info", LogFormat: "text"}
	}
	cfg = c

	opts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}
	if debug {
		opts.Level = "debug"
	}
	if logFormat != "" {
		opts.Format = logFormat
	}
	l, err := logging.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using defaults\n", err)
		l, _ = logging.New(logging.Options{})
	}
	logger = l
}

// tableOptions resolves the delimiter from an explicit flag value, then config.
func tableOptions(flagDelim string) (table.Options, error) {
	opt := table.DefaultOptions()
	d := flagDelim
	if d == "" && cfg != nil {
		d = cfg.Delimiter
	}
	r, err := table.ParseDelimiter(d)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = r
	return opt, nil
}
