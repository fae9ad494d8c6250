package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/esrt/internal/abi"
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
	"github.com/spf13/cobra"
)

var evalJSON string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a JSON-encoded ECMAScript program",
	Long: `Execute a program against the esrt runtime.

Examples:
  # Run a program from a JSON AST file
  esrt run program.json

  # Evaluate inline JSON AST
  esrt run -e '{"body":[...]}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalJSON, "eval", "e", "", "evaluate an inline JSON-encoded AST instead of reading from a file")
}

func runProgram(cmd *cobra.Command, args []string) error {
	var data []byte
	switch {
	case evalJSON != "":
		data = []byte(evalJSON)
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		data = content
	default:
		return fmt.Errorf("either provide a file path or use -e flag for inline JSON")
	}

	prog, err := ast.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode program: %w", err)
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	abi.Configure(cfgPath)

	eng := abi.EngineHandle()
	mainEntry := func(ctx *context.Context, argc int, fp []value.Value, vp []value.Value) bool {
		_ = ctx
		_ = argc
		_ = fp
		result, err := eng.Run(prog)
		if err != nil {
			return false
		}
		if len(vp) > 0 {
			vp[0] = result
		}
		return true
	}

	abi.Init(nil)
	if !abi.Run(mainEntry) {
		return fmt.Errorf("runtime error: %s", abi.LastError())
	}
	return nil
}
