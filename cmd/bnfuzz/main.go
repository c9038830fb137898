// Command bnfuzz runs bignum operations and known-answer vectors against
// every library module bnfuzz knows about.
package main

import (
	"fmt"
	"os"

	"github.com/shabbyrobe/go-bnfuzz/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bnfuzz:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
