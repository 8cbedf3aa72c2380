package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/career-guide/internal/cache"
	"github.com/jonathan/career-guide/internal/client"
	"github.com/jonathan/career-guide/internal/config"
	"github.com/jonathan/career-guide/internal/enhance"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/llm"
	"go.uber.org/zap"
)

// closeFunc releases whatever a generator holds open.
type closeFunc func() error

// buildGenerator wires the configured backend, optionally wrapped in the
// Gemini enhancer with a Redis result cache.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (guidance.Generator, closeFunc, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	var base guidance.Generator
	switch cfg.Backend {
	case config.BackendRemote:
		remote, err := client.NewRemoteGenerator(cfg.RemoteURL, client.Options{
			Timeout: cfg.RequestTimeout.Std(),
			Logger:  logger.Named("remote"),
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using remote guidance backend", zap.String("endpoint", remote.Endpoint()))
		base = remote
	case config.BackendLocal, "":
		base = guidance.NewLocalGenerator(nil)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if !cfg.Enhance {
		return base, closeAll, nil
	}

	llmConfig := llm.DefaultConfig().
		WithModel(cfg.Model).
		WithResponseSchema(enhance.ResponseSchema())
	gemini, err := llm.NewGeminiClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	closers = append(closers, gemini.Close)

	var resultCache cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			// The cache is an optimization; run without it.
			logger.Warn("redis unavailable, enhanced guidance will not be cached", zap.Error(err))
		} else {
			resultCache = redisCache
			closers = append(closers, redisCache.Close)
		}
	}

	logger.Info("enhancing guidance with Gemini", zap.String("model", gemini.Model()))
	return enhance.New(base, gemini, enhance.Options{
		Cache:    resultCache,
		CacheTTL: cfg.CacheTTL.Std(),
		Logger:   logger.Named("enhance"),
	}), closeAll, nil
}
