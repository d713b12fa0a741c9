package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:     "levels",
	Short:   "List the levels a session would play",
	GroupID: "levels",
	Example: `  ltr levels --json
  ltr levels validate ./levels`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("levels-dir") {
			cfg.LevelsDir, _ = cmd.Flags().GetString("levels-dir")
		}

		lvls, err := loadLevels(cfg.LevelsDir)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printLevelsJSON(cmd.OutOrStdout(), lvls)
		}
		printLevelsTable(cmd.OutOrStdout(), lvls)
		return nil
	},
}

var levelsValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check every level file in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.LevelsDir
		}

		lvls, problems, err := loadLevelSet(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range problems {
			fmt.Fprintf(out, "%s %s\n", errorMark(), p.String())
		}
		for _, w := range levelWarnings(lvls) {
			fmt.Fprintf(out, "%s %s\n", warnMark(), w)
		}
		fmt.Fprintf(out, "%d levels ok, %d problems\n", len(lvls), len(problems))
		if len(problems) > 0 {
			return fmt.Errorf("%d level files failed validation", len(problems))
		}
		return nil
	},
}

func init() {
	levelsCmd.Flags().String("levels-dir", "", "directory of level files (default: built-in levels)")
	levelsCmd.AddCommand(levelsValidateCmd)
}
