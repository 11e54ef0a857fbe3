package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skelpo/perryc/internal/diag"
)

// globalFlags holds the flags shared by every subcommand.
type globalFlags struct {
	format  string
	verbose bool
	quiet   bool
	noColor bool
}

var flags globalFlags

// silentErr marks an error whose explanation was already printed (a
// diagnostic list, a doctor report): main exits nonzero without printing
// the error text again.
type silentErr struct{ err error }

func (s silentErr) Error() string { return s.err.Error() }
func (s silentErr) Unwrap() error { return s.err }

func silent(err error) error {
	if err == nil {
		return nil
	}
	return silentErr{err}
}

// knownSubcommands is the set of first-argument tokens that are not a
// source file: a bare "perryc foo.ts" rewrites to "perryc compile foo.ts",
// but "perryc compile foo.ts" is left alone.
var knownSubcommands = map[string]bool{
	"compile":    true,
	"check":      true,
	"init":       true,
	"doctor":     true,
	"explain":    true,
	"help":       true,
	"completion": true,
	"-h":         true,
	"--help":     true,
	"--version":  true,
}

// rewriteLegacyArgs turns "perryc file.ts [-o out]" into
// "perryc compile file.ts [-o out]" when the first argument names neither
// a known subcommand nor a flag.
func rewriteLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	if knownSubcommands[args[0]] || len(args[0]) > 0 && args[0][0] == '-' {
		return args
	}
	rewritten := make([]string, 0, len(args)+1)
	rewritten = append(rewritten, "compile")
	rewritten = append(rewritten, args...)
	return rewritten
}

func newLogger() *zap.SugaredLogger {
	level := zapcore.InfoLevel
	switch {
	case flags.verbose:
		level = zapcore.DebugLevel
	case flags.quiet:
		level = zapcore.ErrorLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// newEmitter builds the diagnostic emitter for --format, writing to w.
func newEmitter(w *os.File) diag.Emitter {
	if flags.format == "json" {
		return diag.NewJSONEmitter(w)
	}
	colored := !flags.noColor && !flags.quiet
	return diag.NewTerminalEmitter(w, colored)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "perryc",
		Short:         "Ahead-of-time compiler for a typed TypeScript subset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.format, "format", "text", "diagnostic output format: text|json")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress all but error-level logging")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable ANSI color in text output")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newExplainCmd())
	return root
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(rewriteLegacyArgs(args))

	if err := root.Execute(); err != nil {
		if _, ok := err.(silentErr); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}
