// Command bindiffgen generates a bindiff patch from an old file and a new
// file.
package main

import (
	"os"

	"github.com/binpatch/bindiff/internal/cli"
)

func main() {
	os.Exit(cli.GenerateRun(os.Args[1:], os.Stderr))
}
