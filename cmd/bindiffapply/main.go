// Command bindiffapply reconstructs a target file from an old file and a
// bindiff patch.
package main

import (
	"os"

	"github.com/binpatch/bindiff/internal/cli"
)

func main() {
	os.Exit(cli.ApplyRun(os.Args[1:], os.Stderr))
}
