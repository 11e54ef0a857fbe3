// Package link invokes the system linker to turn a relocatable object
// (internal/codegen's ELF output) plus the runtime library into an
// executable. std/compiler never shells out to an external linker — it
// writes complete ELF/PE/Mach-O executables itself — so this package's
// "resolve the toolchain, build argv, exec.Command, surface stderr" shape
// is grounded instead on main.go's own exec.Command usage for *running*
// the binary it just finished writing (main.go:339), generalized one step
// further to invoking a build tool rather than the program it built.
package link

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Options configures one link invocation.
type Options struct {
	ObjectPath  string // the .o codegen just wrote
	RuntimePath string // path to the compiled runtime archive/object
	OutputPath  string
	Linker      string // "" selects ResolveLinker's default
}

// ResolveLinker finds a usable system linker driver, preferring cc (so
// libc/startfiles are picked up automatically) and falling back to ld.
func ResolveLinker() (string, error) {
	for _, candidate := range []string{"cc", "gcc", "clang", "ld"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("link: no system linker found (tried cc, gcc, clang, ld)")
}

// Link runs the resolved linker over opts, returning its combined stderr
// output on failure so the driver can surface it as a diagnostic.
func Link(opts Options) error {
	linker := opts.Linker
	if linker == "" {
		resolved, err := ResolveLinker()
		if err != nil {
			return err
		}
		linker = resolved
	}

	args := []string{opts.ObjectPath, opts.RuntimePath, "-o", opts.OutputPath}
	cmd := exec.Command(linker, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("link: %s failed: %w\n%s", linker, err, stderr.String())
	}
	return nil
}
