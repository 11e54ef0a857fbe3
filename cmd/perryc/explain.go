package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skelpo/perryc/internal/diag"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <CODE>",
		Short: "Look up the stable explanation for a diagnostic code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := diag.Code(args[0])
			explanation, ok := diag.Explain(code)
			if !ok {
				return silent(fmt.Errorf("explain: %s is not a known diagnostic code", code))
			}
			if flags.format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(explanation)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n\n", explanation.Code, explanation.Title)
			fmt.Fprintln(out, explanation.Description)
			if explanation.Example != "" {
				fmt.Fprintf(out, "\nexample:\n  %s\n", explanation.Example)
			}
			if explanation.Suggestion != "" {
				fmt.Fprintf(out, "\nsuggestion: %s\n", explanation.Suggestion)
			}
			if len(explanation.Related) > 0 {
				fmt.Fprintf(out, "\nrelated: %v\n", explanation.Related)
			}
			return nil
		},
	}
	return cmd
}
