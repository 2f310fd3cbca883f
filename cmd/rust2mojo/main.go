// Command rust2mojo translates Rust source files into Mojo.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/rust2mojo/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// Commands report their own failures; cobra usage errors are not.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
