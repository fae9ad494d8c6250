// Package cmd implements the esrt command-line tool: a driver that
// decodes a JSON-encoded pkg/ast.Program and runs it through
// internal/abi's esr_init/esr_run surface, since parsing is out of
// scope for this runtime (SPEC_FULL.md §2.5/§1).
//
// Grounded on the teacher's cmd/dwscript/cmd package: one package-level
// rootCmd, Version/GitCommit/BuildDate vars set by build flags, and an
// Execute() entry point, each subcommand in its own file registering
// itself from init().
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "esrt",
	Short: "ECMAScript 5.1 AOT runtime driver",
	Long: `esrt runs JSON-encoded ECMAScript 5.1 programs against the esrt
runtime (internal/abi's esr_init/esr_run/esr_error linkage surface).

It stands in for the front end a real ahead-of-time compiler would
provide: programs reach the runtime pre-parsed, as a JSON AST, rather
than as ECMAScript source text.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringP("config", "c", "esrt.yaml", "path to esrt.yaml config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
