// Command perryc is the compiler's command-line entry point: compile,
// check, init, doctor, and explain subcommands, plus a legacy
// "perryc file.ts [-o out]" form that rewrites to "compile file.ts -o out"
// the way a build tool that grew subcommands later still honors its old
// single-file invocation.
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:]))
}
