package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skelpo/perryc/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.ts> [file2.ts ...]",
		Short: "Parse and resolve source files, reporting diagnostics without compiling",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := driver.Options{EntryPaths: args}
			log := newLogger()
			defer log.Sync()

			res, err := driver.Check(opts, log)
			if err != nil {
				return err
			}
			if err := emitResult(cmd, res); err != nil {
				return err
			}
			if res.Diags.HasErrors() {
				return silent(fmt.Errorf("check: %d error(s)", mustErrors(res)))
			}
			return nil
		},
	}
	return cmd
}
