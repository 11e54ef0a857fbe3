package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skelpo/perryc/internal/driver"
)

func newDoctorCmd() *cobra.Command {
	var runtimePath string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the local build environment: system linker, runtime archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := driver.Doctor(runtimePath)
			out := cmd.OutOrStdout()
			for _, c := range checks {
				mark := "ok"
				if !c.OK {
					mark = "FAIL"
				}
				fmt.Fprintf(out, "[%s] %-16s %s\n", mark, c.Name, c.Detail)
			}
			if !driver.AllOK(checks) {
				return silent(fmt.Errorf("doctor: one or more checks failed"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&runtimePath, "runtime", "", "path to the compiled runtime archive to check for")
	return cmd
}
