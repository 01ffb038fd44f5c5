package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salescrub/internal/prepare"
	"github.com/KaramelBytes/salescrub/internal/rules"
	"github.com/KaramelBytes/salescrub/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	prepRawDir      string
	prepPreparedDir string
	prepRulesFile   string
	prepReportPath  string
	prepDelimiter   string
	prepQuiet       bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <pipeline|all>",
	Short: "Run preparation pipelines over raw extracts",
	Long: `Run one configured pipeline (customers, products, sales, or any name defined in the
rules file) or all of them in file order. Each run audits the raw data, applies the
configured cleaning steps, audits again and writes the prepared CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesPath := prepRulesFile
		if rulesPath == "" && cfg != nil {
			rulesPath = cfg.RulesFile
		}
		set, err := rules.Load(rulesPath)
		if err != nil {
			return err
		}

		var targets []rules.Pipeline
		if strings.EqualFold(args[0], "all") {
			targets = set.Pipelines
		} else {
			p, ok := set.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown pipeline %q (available: %s, all)", args[0], strings.Join(set.Names(), ", "))
			}
			targets = []rules.Pipeline{p}
		}

		topt, err := tableOptions(prepDelimiter)
		if err != nil {
			return err
		}
		opt := prepare.Options{
			RawDir:      prepRawDir,
			PreparedDir: prepPreparedDir,
			Table:       topt,
			Logger:      logger,
		}
		if opt.RawDir == "" && cfg != nil {
			opt.RawDir = cfg.RawDir
		}
		if opt.PreparedDir == "" && cfg != nil {
			opt.PreparedDir = cfg.PreparedDir
		}
		if prepQuiet {
			logger.SetLevel(logrus.WarnLevel)
		}

		out := cmd.OutOrStdout()
		var reports []string
		for _, p := range targets {
			res, err := prepare.Run(cmd.Context(), p, opt)
			if err != nil {
				return err
			}
			reports = append(reports, res.Markdown())
			if !prepQuiet {
				fmt.Fprintf(out, "✓ %s: %d -> %d rows, wrote %s\n", res.Pipeline, res.Before.Rows, res.After.Rows, res.Output)
			}
		}

		if prepReportPath != "" {
			md := strings.Join(reports, "\n---\n\n")
			if err := utils.SafeWriteFile(prepReportPath, []byte(md)); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !prepQuiet {
				fmt.Fprintf(out, "✓ Wrote report to %s\n", prepReportPath)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	prepareCmd.Flags().StringVar(&prepRawDir, "raw-dir", "", "directory holding raw extracts (default from config)")
	prepareCmd.Flags().StringVar(&prepPreparedDir, "prepared-dir", "", "directory for prepared files (default from config)")
	prepareCmd.Flags().StringVar(&prepRulesFile, "rules", "", "pipeline rules YAML (default: built-in rules)")
	prepareCmd.Flags().StringVar(&prepReportPath, "report", "", "write before/after audits and step counts (Markdown) to this path")
	prepareCmd.Flags().StringVar(&prepDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	prepareCmd.Flags().BoolVarP(&prepQuiet, "quiet", "q", false, "only log warnings and errors")
}
