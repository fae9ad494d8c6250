package cmd

import (
	"fmt"

	"github.com/cwbudde/esrt/internal/abi"
	"github.com/cwbudde/esrt/internal/context"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
	"github.com/spf13/cobra"
)

var benchIterations int

// benchProgramTemplate is a fixed micro-benchmark (spec §2.5): a loop repeating
// `o.x = o.x + 1` so that the same property-access callsite runs
// thousands of times against the same shape, giving internal/icache's
// property cache (component P) something to report hit/miss counts on.
const benchProgramTemplate = `{"body":[
  {"type":"VariableStatement","declarations":[{"name":"o","init":
    {"type":"ObjectLiteral","properties":[{"key":{"type":"Identifier","name":"x"},"value":{"type":"NumberLiteral","value":0},"kind":"init"}]}}]},
  {"type":"ForStatement",
   "init":{"type":"VariableStatement","declarations":[{"name":"i","init":{"type":"NumberLiteral","value":0}}]},
   "test":{"type":"BinaryExpression","operator":"<","left":{"type":"Identifier","name":"i"},"right":{"type":"NumberLiteral","value":%d}},
   "update":{"type":"AssignmentExpression","operator":"=","target":{"type":"Identifier","name":"i"},
     "value":{"type":"BinaryExpression","operator":"+","left":{"type":"Identifier","name":"i"},"right":{"type":"NumberLiteral","value":1}}},
   "body":{"type":"BlockStatement","body":[
     {"type":"ExpressionStatement","expression":
       {"type":"AssignmentExpression","operator":"=",
        "target":{"type":"MemberExpression","object":{"type":"Identifier","name":"o"},"property":{"type":"Identifier","name":"x"},"computed":false},
        "value":{"type":"BinaryExpression","operator":"+",
          "left":{"type":"MemberExpression","object":{"type":"Identifier","name":"o"},"property":{"type":"Identifier","name":"x"},"computed":false},
          "right":{"type":"NumberLiteral","value":1}}}}
   ]}}
]}`

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a fixed micro-benchmark and report inline-cache statistics",
	RunE:  runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 100000, "loop iterations the benchmark program runs")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	abi.Configure(cfgPath)

	prog, err := ast.Decode([]byte(fmt.Sprintf(benchProgramTemplate, benchIterations)))
	if err != nil {
		return fmt.Errorf("failed to decode benchmark program: %w", err)
	}

	eng := abi.EngineHandle()
	mainEntry := func(ctx *context.Context, argc int, fp []value.Value, vp []value.Value) bool {
		_, err := eng.Run(prog)
		return err == nil
	}

	abi.Init(nil)
	if !abi.Run(mainEntry) {
		return fmt.Errorf("benchmark failed: %s", abi.LastError())
	}

	ctxHits, ctxMisses, propHits, propMisses := eng.CacheStats()
	fmt.Printf("iterations:       %d\n", benchIterations)
	fmt.Printf("context cache:    %d hits, %d misses\n", ctxHits, ctxMisses)
	fmt.Printf("property cache:   %d hits, %d misses\n", propHits, propMisses)
	return nil
}
