package guidance

import (
	"context"
	"time"

	"github.com/jonathan/career-guide/internal/metrics"
	"github.com/jonathan/career-guide/internal/types"
)

// Backend names a Generator implementation in configuration.
type Backend string

// Supported backends.
const (
	BackendLocal  Backend = "local"
	BackendRemote Backend = "remote"
)

// Generator produces guidance for a validated profile.
type Generator interface {
	Generate(ctx context.Context, p types.Profile) (*types.Recommendation, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, p types.Profile) (*types.Recommendation, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, p types.Profile) (*types.Recommendation, error) {
	return f(ctx, p)
}

// LocalGenerator serves guidance from an in-process Engine.
type LocalGenerator struct {
	engine *Engine
}

// NewLocalGenerator wraps engine; a nil engine uses the default rule table.
func NewLocalGenerator(engine *Engine) *LocalGenerator {
	if engine == nil {
		engine = defaultEngine
	}
	return &LocalGenerator{engine: engine}
}

// Generate returns the engine's guidance, or ctx.Err() if ctx is already done.
func (g *LocalGenerator) Generate(ctx context.Context, p types.Profile) (*types.Recommendation, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		metrics.ObserveGeneration(string(BackendLocal), start, err)
		return nil, err
	}
	rec := g.engine.Generate(p)
	metrics.ObserveGeneration(string(BackendLocal), start, nil)
	return &rec, nil
}

// Explain exposes the underlying engine's fired rules.
func (g *LocalGenerator) Explain(p types.Profile) []string {
	return g.engine.Explain(p)
}
