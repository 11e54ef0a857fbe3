// Package driver orchestrates the compiler pipeline end to end: parse,
// monomorphize, convert closures, lower to machine IR, emit object code, and
// invoke the system linker. It is the thing cmd/perryc calls into for every
// subcommand that touches a source file, driving the same parse -> resolve
// -> codegen -> link sequence a hand-rolled main() would, behind a struct of
// already-parsed Options instead of a flag-parsing loop.
package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/skelpo/perryc/internal/closure"
	"github.com/skelpo/perryc/internal/codegen"
	"github.com/skelpo/perryc/internal/diag"
	"github.com/skelpo/perryc/internal/frontend"
	"github.com/skelpo/perryc/internal/hir"
	"github.com/skelpo/perryc/internal/link"
	"github.com/skelpo/perryc/internal/mono"
)

// Options configures one compile/check invocation.
type Options struct {
	EntryPaths  []string
	OutputPath  string
	RuntimePath string
	Linker      string
	OptLevel    int
	KeepObject  bool
}

// Result is what a pipeline stage hands back to the CLI layer: the
// diagnostics collected so far and the file cache needed to resolve their
// locations. OutputPath is set once Compile finishes linking.
type Result struct {
	Diags      *diag.Collection
	Cache      *diag.Cache
	OutputPath string
}

// frontendStage parses every entry file into one shared hir.Module, so
// declarations in one file resolve against another's.
func frontendStage(opts Options) (*hir.Module, *Result, error) {
	cache := diag.NewCache()
	diags := &diag.Collection{}
	mod := hir.NewModule()

	for _, path := range opts.EntryPaths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("driver: read %s: %w", path, err)
		}
		if err := frontend.Parse(cache, path, string(src), mod, diags); err != nil {
			return nil, nil, fmt.Errorf("driver: parse %s: %w", path, err)
		}
	}
	return mod, &Result{Diags: diags, Cache: cache}, nil
}

// Check runs only the frontend: lex, parse, and name-resolve every entry
// file, reporting diagnostics without generating code.
func Check(opts Options, log *zap.SugaredLogger) (*Result, error) {
	log.Debugw("checking", "entries", opts.EntryPaths)
	_, res, err := frontendStage(opts)
	if err != nil {
		return nil, err
	}
	errs, warns, _ := res.Diags.Counts()
	log.Debugw("check complete", "errors", errs, "warnings", warns)
	return res, nil
}

// Compile runs the full pipeline: frontend, monomorphization, closure
// conversion, codegen, and linking. It stops after the frontend if that
// stage reported any error-severity diagnostic — errors stop the pipeline
// at a stage boundary, warnings don't.
func Compile(opts Options, log *zap.SugaredLogger) (*Result, error) {
	mod, res, err := frontendStage(opts)
	if err != nil {
		return nil, err
	}
	if res.Diags.HasErrors() {
		log.Warnw("stopping after frontend: errors present", "count", res.Diags.Len())
		return res, nil
	}

	log.Debug("monomorphizing")
	if err := mono.Monomorphize(mod); err != nil {
		return res, fmt.Errorf("driver: monomorphize: %w", err)
	}

	log.Debug("converting closures")
	closure.Convert(mod)

	log.Debug("lowering to machine IR")
	mirMod := codegen.Lower(mod)

	log.Debug("emitting object code")
	obj, err := codegen.NewELFCodeGen().Emit(mirMod)
	if err != nil {
		return res, fmt.Errorf("driver: codegen: %w", err)
	}

	objPath := opts.OutputPath + ".o"
	if err := os.WriteFile(objPath, obj, 0o644); err != nil {
		return res, fmt.Errorf("driver: write object %s: %w", objPath, err)
	}
	if !opts.KeepObject {
		defer os.Remove(objPath)
	}

	runtimePath := opts.RuntimePath
	if runtimePath == "" {
		runtimePath = defaultRuntimePath()
	}
	if _, err := os.Stat(runtimePath); err != nil {
		return res, fmt.Errorf("driver: runtime archive %s not found (build it first, or pass --runtime): %w", runtimePath, err)
	}

	log.Debugw("linking", "linker", opts.Linker, "runtime", runtimePath)
	if err := link.Link(link.Options{
		ObjectPath:  objPath,
		RuntimePath: runtimePath,
		OutputPath:  opts.OutputPath,
		Linker:      opts.Linker,
	}); err != nil {
		return res, fmt.Errorf("driver: link: %w", err)
	}

	res.OutputPath = opts.OutputPath
	return res, nil
}

// defaultRuntimePath is where Compile looks for the compiled runtime archive
// when --runtime isn't given: next to the working directory's perry.toml,
// under runtime/runtime.a.
func defaultRuntimePath() string {
	return filepath.Join("runtime", "runtime.a")
}
