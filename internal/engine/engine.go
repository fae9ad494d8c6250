// Package engine is the composition root (spec §5.2): it wires
// bootstrap's prototype set, builtins' method population, a
// config-driven call-stack depth and a logger into one *Engine handle
// that internal/abi's esr_init/esr_run/esr_error surface operates
// against.
//
// Grounded on the teacher's cmd/dwscript/cmd run.go, which similarly
// assembles an interpreter from its constituent pieces (lexer, parser,
// semantic analyzer, interp.New) behind one call site; this package
// plays the same role for the pieces this runtime actually has
// (bootstrap, builtins, frame, enginelog) now that parsing is out of
// scope.
package engine

import (
	"log/slog"
	"os"

	"github.com/cwbudde/esrt/internal/bootstrap"
	"github.com/cwbudde/esrt/internal/builtins"
	"github.com/cwbudde/esrt/internal/config"
	"github.com/cwbudde/esrt/internal/enginelog"
	"github.com/cwbudde/esrt/internal/evaluator"
	"github.com/cwbudde/esrt/internal/frame"
	"github.com/cwbudde/esrt/internal/value"
	"github.com/cwbudde/esrt/pkg/ast"
)

// Engine is one fully-bootstrapped runtime instance: a heap, global
// object/environment, and the builtin prototypes and methods already
// installed, ready to run any number of Programs in sequence.
type Engine struct {
	Evaluator *evaluator.Evaluator
	Config    *config.Config
	Log       *enginelog.Logger
}

// New builds an Engine from cfg (config.Default() if nil): applies cfg's
// promotion thresholds to internal/propmap and internal/iarray before
// any object exists, builds the prototype/global set, installs builtins,
// then overrides the evaluator's default call-stack depth with cfg's.
func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Apply()

	logger := enginelog.New(os.Stderr, cfg.LogFormat, slog.LevelInfo)
	enginelog.SetDefault(logger)

	e := bootstrap.New()
	builtins.Install(e)
	e.Frames = frame.NewStack(cfg.MaxCallStackDepth)
	if cfg.StrictByDefault {
		e.Contexts.Current().Strict = true
	}

	return &Engine{Evaluator: e, Config: cfg, Log: logger}
}

// Run executes prog against the engine's already-bootstrapped global
// state, logging start/stop at Info per spec §2.2.
func (g *Engine) Run(prog *ast.Program) (value.Value, error) {
	g.Log.Info("run start")
	result, err := g.Evaluator.Run(prog)
	if err != nil {
		g.Log.Error("run failed", "err", err)
		return result, err
	}
	g.Log.Info("run stop")
	return result, nil
}

// CacheStats reports the evaluator's inline-cache hit/miss counters, for
// the esrt bench subcommand's reporting (SPEC_FULL.md §2.5).
func (g *Engine) CacheStats() (ctxHits, ctxMisses, propHits, propMisses int) {
	ch, cm := g.Evaluator.CCache.Stats()
	ph, pm := g.Evaluator.PCache.Stats()
	return ch, cm, ph, pm
}
