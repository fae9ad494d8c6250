package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/esrt/cmd/esrt/cmd"
)

func main() {
	os.Exit(run())
}

// run is split out from main so testscript.RunMain (main_test.go) can
// register it as the "esrt" command: scripts re-exec the test binary
// itself, so no separate esrt binary has to be built.
func run() int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
