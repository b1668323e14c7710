// Command opticode is the terminal client for an OptiCode server.
//
// Usage:
//
//	opticode analyze main.py                 # review a file
//	cat main.py | opticode analyze           # review stdin
//	opticode analyze --code 'x = 1' --pdf report.pdf
//	opticode upload main.py                  # show what the server reads
package main

import (
	"os"

	"github.com/bryanwahyu/opticode/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
