package cmd

import (
	"fmt"

	"github.com/KaramelBytes/salescrub/internal/scrub"
	"github.com/KaramelBytes/salescrub/internal/table"
	"github.com/spf13/cobra"
)

var (
	outDelimiter string
	outTrimPath  string
)

var outliersCmd = &cobra.Command{
	Use:   "outliers <file> <column>",
	Short: "Show the IQR outlier fences of a numeric column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, col := args[0], args[1]
		opt, err := tableOptions(outDelimiter)
		if err != nil {
			return err
		}
		df, err := table.ReadFile(path, opt)
		if err != nil {
			return err
		}
		q1, q3, err := scrub.Quartiles(df, col)
		if err != nil {
			return err
		}
		lower, upper, err := scrub.InterquartileOutlierBounds(df, col)
		if err != nil {
			return err
		}
		trimmed := scrub.FilterRange(df, col, lower, upper)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Column: %s\n", col)
		fmt.Fprintf(out, "Q1: %g\n", q1)
		fmt.Fprintf(out, "Q3: %g\n", q3)
		fmt.Fprintf(out, "IQR: %g\n", q3-q1)
		fmt.Fprintf(out, "Lower fence: %g\n", lower)
		fmt.Fprintf(out, "Upper fence: %g\n", upper)
		fmt.Fprintf(out, "Rows kept: %d of %d\n", trimmed.Nrow(), df.Nrow())

		if outTrimPath != "" {
			if err := table.WriteFile(outTrimPath, trimmed, opt); err != nil {
				return fmt.Errorf("write trimmed data: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote trimmed data to %s\n", outTrimPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outliersCmd)
	outliersCmd.Flags().StringVar(&outDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	outliersCmd.Flags().StringVar(&outTrimPath, "trim", "", "write the rows inside the fences to this path")
}
