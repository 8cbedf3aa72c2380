// Package enhance expands rule-based guidance into richer, personalised guidance with Gemini.
package enhance

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/career-guide/internal/cache"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/llm"
	"github.com/jonathan/career-guide/internal/metrics"
	"github.com/jonathan/career-guide/internal/prompts"
	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/types"
	"go.uber.org/zap"
)

// BackendName labels enhanced generation in metrics and logs.
const BackendName = "enhanced"

// DefaultMinItems is how many entries per list the model is asked for.
const DefaultMinItems = 5

// Options configures an Enhancer.
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	MinItems int
	Logger   *zap.Logger
}

// Enhancer is a guidance.Generator that asks an LLM to rewrite the output of a base generator.
type Enhancer struct {
	base     guidance.Generator
	client   llm.Client
	cache    cache.Cache
	cacheTTL time.Duration
	minItems int
	logger   *zap.Logger
}

var _ guidance.Generator = (*Enhancer)(nil)

// New creates an Enhancer over base using client.
func New(base guidance.Generator, client llm.Client, opts Options) *Enhancer {
	e := &Enhancer{
		base:     base,
		client:   client,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		minItems: opts.MinItems,
		logger:   opts.Logger,
	}
	if e.cache == nil {
		e.cache = cache.Nop{}
	}
	if e.minItems <= 0 {
		e.minItems = DefaultMinItems
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// ResponseSchema is the Gemini response schema for enhanced guidance.
func ResponseSchema() *genai.Schema {
	return llm.StringListSchema("jobRoles", "resumeTips", "nextSteps")
}

// Generate produces the base guidance and has the LLM rewrite it. Results are
// cached per model and profile; cache failures are logged and ignored.
func (e *Enhancer) Generate(ctx context.Context, p types.Profile) (rec *types.Recommendation, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration(BackendName, start, err) }()

	key := cache.Key(e.client.Model(), p)
	if cached, ok := e.lookup(ctx, key); ok {
		return cached, nil
	}

	base, err := e.base.Generate(ctx, p)
	if err != nil {
		return nil, err
	}

	prompt := BuildPrompt(p, base, e.minItems)
	text, err := e.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate enhanced guidance", Cause: err}
	}

	rec, err = parseRecommendation(text)
	if err != nil {
		e.logger.Warn("discarding unusable LLM response",
			zap.String("model", e.client.Model()),
			zap.Error(err))
		return nil, err
	}

	if err := e.cache.Set(ctx, key, rec, e.cacheTTL); err != nil {
		e.logger.Warn("failed to cache enhanced guidance", zap.String("key", key), zap.Error(err))
	}

	return rec, nil
}

func (e *Enhancer) lookup(ctx context.Context, key string) (*types.Recommendation, bool) {
	rec, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		e.logger.Debug("cache hit for enhanced guidance", zap.String("key", key))
		return rec, true
	case errors.Is(err, cache.ErrNotFound):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		e.logger.Warn("cache error for enhanced guidance", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

// BuildPrompt renders the enhancement prompt for a profile and its base guidance.
func BuildPrompt(p types.Profile, base *types.Recommendation, minItems int) string {
	template := prompts.MustGet(prompts.GuidanceFile, prompts.EnhanceGuidance)
	return prompts.Format(template, map[string]string{
		"Skills":     strings.Join(p.Skills(), ", "),
		"Interests":  strings.Join(p.Interests(), ", "),
		"Education":  string(p.Education()),
		"Goal":       string(p.Goal()),
		"JobRoles":   strings.Join(base.JobRoles, ", "),
		"ResumeTips": strings.Join(base.ResumeTips, "; "),
		"NextSteps":  strings.Join(base.NextSteps, "; "),
		"MinItems":   strconv.Itoa(minItems),
	})
}

func parseRecommendation(text string) (*types.Recommendation, error) {
	text = llm.CleanJSONBlock(text)

	if err := schemas.ValidateRecommendation([]byte(text)); err != nil {
		return nil, &ParseError{Message: "response does not match recommendation schema", Cause: err}
	}

	var rec types.Recommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}
	return &rec, nil
}
