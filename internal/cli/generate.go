// Package cli implements the two command-line entry points of the bindiff
// engine: a patch generator and a patch applier. Both commands are kept
// deliberately thin: parse flags, open files, call into bindiff, report
// the outcome.
package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/binpatch/bindiff/internal/bderrs"
)

// GenerateRun is the bindiffgen entry point. It accepts positional
// arguments (old_path, new_path, patch_path) and an optional -b/--blocksize
// flag. Errors go to errOut; the return value is the process exit code.
func GenerateRun(args []string, errOut io.Writer) int {
	fs := flag.NewFlagSet("bindiffgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	blockSize := fs.IntP("blocksize", "b", 0, "block size in bytes (0 = single block)")

	if err := fs.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printGenerateUsage(errOut)
		return 1
	}

	rest := fs.Args()
	if len(rest) != 3 {
		fprintln(errOut, "error: expected exactly 3 positional arguments, got", len(rest))
		printGenerateUsage(errOut)
		return 1
	}
	oldPath, newPath, patchPath := rest[0], rest[1], rest[2]

	if err := runGenerate(oldPath, newPath, patchPath, *blockSize); err != nil {
		fprintln(errOut, "error:", err)
		return exitCodeFor(err)
	}
	return 0
}

func printGenerateUsage(w io.Writer) {
	fprintln(w, "usage: bindiffgen [-b blocksize] <old_path> <new_path> <patch_path>")
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// exitCodeFor maps an internal/bderrs sentinel to a process exit code. All
// failure kinds are currently reported with a nonzero code and a
// diagnostic on stderr; the mapping is kept explicit rather than a bare
// "return 1" so a future caller can distinguish kinds without touching
// the parsing/dispatch code.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, bderrs.BadMagic):
		return 2
	case errors.Is(err, bderrs.PatchShort):
		return 3
	default:
		return 1
	}
}
