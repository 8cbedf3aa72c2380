// Package client calls a remote career guidance service over its JSON HTTP API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/metrics"
	"github.com/jonathan/career-guide/internal/types"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// GeneratePath is the guidance endpoint relative to the service base URL.
const GeneratePath = "/api/generate-guidance"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// BreakerConfig configures the circuit breaker in front of the remote service.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Requests allowed while half-open
	Interval         time.Duration // Closed-state counter reset period
	Timeout          time.Duration // Open-state duration before probing
	FailureThreshold uint32        // Consecutive failures that open the breaker
}

// DefaultBreakerConfig returns conservative breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "guidance-remote",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Options configures a RemoteGenerator.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Breaker    BreakerConfig
	Logger     *zap.Logger
}

// RemoteGenerator is a guidance.Generator backed by a remote guidance service.
type RemoteGenerator struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*types.Recommendation]
	logger   *zap.Logger
}

var _ guidance.Generator = (*RemoteGenerator)(nil)

// NewRemoteGenerator creates a generator that posts profiles to baseURL + GeneratePath.
func NewRemoteGenerator(baseURL string, opts Options) (*RemoteGenerator, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote URL %q: scheme must be http or https", baseURL)
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = DefaultBreakerConfig()
	}

	return &RemoteGenerator{
		endpoint: u.String() + GeneratePath,
		client:   opts.HTTPClient,
		breaker:  newBreaker(opts.Breaker, opts.Logger),
		logger:   opts.Logger,
	}, nil
}

func newBreaker(cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[*types.Recommendation] {
	metrics.BreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[*types.Recommendation](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller cancellations say nothing about the remote's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("remote guidance breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Endpoint returns the full URL profiles are posted to.
func (g *RemoteGenerator) Endpoint() string {
	return g.endpoint
}

// State returns the circuit breaker state.
func (g *RemoteGenerator) State() gobreaker.State {
	return g.breaker.State()
}

// Generate posts p to the remote service. Any transport failure, non-2xx
// status, undecodable body or open breaker is reported as ErrGenerationFailed.
func (g *RemoteGenerator) Generate(ctx context.Context, p types.Profile) (rec *types.Recommendation, err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration(string(guidance.BackendRemote), start, err) }()

	rec, err = g.breaker.Execute(func() (*types.Recommendation, error) {
		return g.post(ctx, p)
	})
	if err != nil {
		g.logger.Error("remote guidance request failed",
			zap.String("endpoint", g.endpoint),
			zap.Error(err))
		return nil, generationFailed(err)
	}
	return rec, nil
}

func (g *RemoteGenerator) post(ctx context.Context, p types.Profile) (*types.Recommendation, error) {
	body, err := gojson.Marshal(p.Request())
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			g.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var rec types.Recommendation
	if err := gojson.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &rec, nil
}
