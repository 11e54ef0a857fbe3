package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const initTemplate = `[project]
name = %q
entry = "index.ts"

[build]
out_dir = "dist"
opt_level = 1
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Write a starter perry.toml in the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "perry-project"
			if len(args) == 1 {
				name = args[0]
			}
			if _, err := os.Stat("perry.toml"); err == nil {
				return fmt.Errorf("init: perry.toml already exists")
			}
			contents := fmt.Sprintf(initTemplate, name)
			if err := os.WriteFile("perry.toml", []byte(contents), 0o644); err != nil {
				return fmt.Errorf("init: %w", err)
			}
			if _, err := os.Stat("index.ts"); err != nil {
				stub := "function main(): void {\n  print(\"hello\");\n}\n"
				os.WriteFile("index.ts", []byte(stub), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote perry.toml")
			return nil
		},
	}
	return cmd
}
