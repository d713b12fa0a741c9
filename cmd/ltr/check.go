package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/linuxtrainer/internal/matcher"
	"github.com/alfredjeanlab/linuxtrainer/internal/ui"
	"github.com/spf13/cobra"
)

type checkResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Match    bool   `json:"match"`
	Rule     string `json:"rule"`
}

var checkCmd = &cobra.Command{
	Use:     "check --expected <command> <input...>",
	Short:   "Judge an answer against an expected command",
	GroupID: "train",
	Example: `  ltr check --expected "nano notes.txt" vi notes.txt
  ltr check --explain --expected ls ls -la`,
	Long: `Judge an answer the same way a session would.

Exits non-zero when the answer does not match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expected, _ := cmd.Flags().GetString("expected")
		explain, _ := cmd.Flags().GetBool("explain")

		input := strings.Join(args, " ")
		match, rule := matcher.Default().Explain(input, expected)
		res := checkResult{Input: input, Expected: expected, Match: match, Rule: rule}

		out := cmd.OutOrStdout()
		if jsonOutput {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling result: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, formatCheck(res, explain))
		}

		if !match {
			cmd.SilenceErrors = true
			return fmt.Errorf("no match")
		}
		return nil
	},
}

func formatCheck(res checkResult, explain bool) string {
	verdict := ui.RenderSuccess("match")
	if !res.Match {
		verdict = ui.RenderError("no match")
	}
	if explain {
		return fmt.Sprintf("%s %s", verdict, ui.RenderMuted("(rule: "+res.Rule+")"))
	}
	return verdict
}

func init() {
	checkCmd.Flags().String("expected", "", "the command the level expects")
	checkCmd.Flags().Bool("explain", false, "show which rule decided the verdict")
	_ = checkCmd.MarkFlagRequired("expected")
}
