package driver

import (
	"fmt"
	"os"

	"github.com/skelpo/perryc/internal/link"
)

// DoctorCheck is one diagnosed fact about the build environment: a name, a
// pass/fail, and a human-facing detail.
type DoctorCheck struct {
	Name   string
	OK     bool
	Detail string
}

// Doctor runs the environment checks `perryc doctor` reports: a usable
// system linker, and the runtime archive's presence (at runtimePath, or at
// the default runtime path when runtimePath is empty). It never returns an error itself — failures are reported as
// DoctorCheck.OK == false, the same "report not-found, let the caller
// decide" shape the handle registry uses, applied to environment checks.
func Doctor(runtimePath string) []DoctorCheck {
	var checks []DoctorCheck

	if linker, err := link.ResolveLinker(); err != nil {
		checks = append(checks, DoctorCheck{Name: "system linker", OK: false, Detail: err.Error()})
	} else {
		checks = append(checks, DoctorCheck{Name: "system linker", OK: true, Detail: linker})
	}

	path := runtimePath
	if path == "" {
		path = defaultRuntimePath()
	}
	if _, err := os.Stat(path); err != nil {
		checks = append(checks, DoctorCheck{Name: "runtime archive", OK: false, Detail: fmt.Sprintf("%s: not found", path)})
	} else {
		checks = append(checks, DoctorCheck{Name: "runtime archive", OK: true, Detail: path})
	}

	return checks
}

// AllOK reports whether every check passed.
func AllOK(checks []DoctorCheck) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}
