package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/salescrub/internal/scrub"
	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/KaramelBytes/salescrub/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	audOutputPath string
	audDelimiter  string
	audJSON       bool
)

var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Print a consistency report for a CSV/TSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := tableOptions(audDelimiter)
		if err != nil {
			return err
		}
		df, err := table.ReadFile(path, opt)
		if err != nil {
			return err
		}
		if _, err := scrub.New(df); err != nil {
			return err
		}
		rep := scrub.Audit(df, scrub.StageAdhoc)
		rep.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		logger.WithFields(logrus.Fields{
			"dataset": rep.Name,
			"types":   strings.Join(rep.SortedTypes(), ","),
		}).Debugf("audited %s", rep.Summary())

		var body []byte
		if audJSON {
			if body, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
		} else {
			body = []byte(rep.Markdown())
		}

		if audOutputPath != "" {
			if err := utils.SafeWriteFile(audOutputPath, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote audit to %s\n", audOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVarP(&audOutputPath, "output", "o", "", "optional path to write the report")
	auditCmd.Flags().StringVar(&audDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	auditCmd.Flags().BoolVar(&audJSON, "json", false, "emit the report as JSON instead of Markdown")
}
