package cli

import (
	"io"

	flag "github.com/spf13/pflag"
)

// ApplyRun is the bindiffapply entry point. It accepts positional
// arguments (old_path, new_path_or_dir, patch_path). If new_path_or_dir
// names an existing directory, the reconstructed target is written to a
// temporary file inside it. The return value is the process exit code.
func ApplyRun(args []string, errOut io.Writer) int {
	fs := flag.NewFlagSet("bindiffapply", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printApplyUsage(errOut)
		return 1
	}

	rest := fs.Args()
	if len(rest) != 3 {
		fprintln(errOut, "error: expected exactly 3 positional arguments, got", len(rest))
		printApplyUsage(errOut)
		return 1
	}
	oldPath, newPath, patchPath := rest[0], rest[1], rest[2]

	if err := runApply(oldPath, newPath, patchPath); err != nil {
		fprintln(errOut, "error:", err)
		return exitCodeFor(err)
	}
	return 0
}

func printApplyUsage(w io.Writer) {
	fprintln(w, "usage: bindiffapply <old_path> <new_path_or_dir> <patch_path>")
}
