package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/salescrub/internal/rules"
	"github.com/KaramelBytes/salescrub/internal/utils"
	"github.com/spf13/cobra"
)

var (
	rulesFileFlag string
	rulesForce    bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect or scaffold pipeline rules",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective pipeline rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := rulesFileFlag
		if path == "" && cfg != nil {
			path = cfg.RulesFile
		}
		set, err := rules.Load(path)
		if err != nil {
			return err
		}
		b, err := set.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var rulesInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the built-in rules to a file for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := utils.ExpandHome(args[0])
		if err != nil {
			return err
		}
		if !rulesForce {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
		if err := utils.SafeWriteFile(path, rules.DefaultYAML()); err != nil {
			return fmt.Errorf("write rules: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote rules to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesInitCmd)
	rulesShowCmd.Flags().StringVar(&rulesFileFlag, "rules", "", "pipeline rules YAML (default from config or built-in)")
	rulesInitCmd.Flags().BoolVar(&rulesForce, "force", false, "overwrite an existing file")
}
