package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skelpo/perryc/internal/driver"
)

func newCompileCmd() *cobra.Command {
	var (
		output     string
		runtime    string
		linker     string
		keepObject bool
	)
	cmd := &cobra.Command{
		Use:   "compile <file.ts> [file2.ts ...]",
		Short: "Compile one or more source files into a native executable",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output
			if out == "" {
				out = defaultOutputName(args[0])
			}
			opts := driver.Options{
				EntryPaths:  args,
				OutputPath:  out,
				RuntimePath: runtime,
				Linker:      linker,
				KeepObject:  keepObject,
			}
			log := newLogger()
			defer log.Sync()

			res, err := driver.Compile(opts, log)
			if err != nil {
				return err
			}
			if err := emitResult(cmd, res); err != nil {
				return err
			}
			if res.Diags.HasErrors() {
				return silent(fmt.Errorf("compile: %d error(s)", mustErrors(res)))
			}
			if res.OutputPath == "" {
				return silent(fmt.Errorf("compile: stopped before linking"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.OutputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output executable path (default: input name minus extension)")
	cmd.Flags().StringVar(&runtime, "runtime", "", "path to the compiled runtime archive (default: runtime/runtime.a)")
	cmd.Flags().StringVar(&linker, "linker", "", "system linker to invoke (default: auto-detected cc/gcc/clang/ld)")
	cmd.Flags().BoolVar(&keepObject, "keep-object", false, "keep the intermediate .o file instead of removing it")
	return cmd
}

func defaultOutputName(entry string) string {
	base := entry
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			return base[i+1:]
		}
	}
	return base
}

func mustErrors(res *driver.Result) int {
	errs, _, _ := res.Diags.Counts()
	return errs
}

func emitResult(cmd *cobra.Command, res *driver.Result) error {
	emitter := newEmitter(os.Stderr)
	if err := emitter.EmitAll(res.Diags, res.Cache); err != nil {
		return err
	}
	if res.Diags.Len() > 0 {
		return emitter.EmitSummary(res.Diags)
	}
	return nil
}
