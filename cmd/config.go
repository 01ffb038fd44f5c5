package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/salescrub/internal/config"
	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set salescrub configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "raw_dir: %s\n", cfg.RawDir)
		fmt.Fprintf(out, "prepared_dir: %s\n", cfg.PreparedDir)
		if cfg.RulesFile != "" {
			fmt.Fprintf(out, "rules_file: %s\n", cfg.RulesFile)
		} else {
			fmt.Fprintln(out, "rules_file: (built-in)")
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
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
		case "data_dir":
			if err := cfg.SetDataDir(val); err != nil {
				return err
			}
		case "raw_dir":
			cfg.RawDir = val
		case "prepared_dir":
			cfg.PreparedDir = val
		case "rules_file":
			cfg.RulesFile = val
		case "delimiter":
			if _, err := table.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "log_level":
			if _, err := logrus.ParseLevel(val); err != nil {
				return fmt.Errorf("invalid log_level: %s", val)
			}
			cfg.LogLevel = strings.ToLower(val)
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				cfg.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
