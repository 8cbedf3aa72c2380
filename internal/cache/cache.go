// Package cache stores generated recommendations so repeat submissions skip the LLM call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jonathan/career-guide/internal/types"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = errors.New("key not found in cache")

// Cache is a TTL store of recommendations.
type Cache interface {
	Get(ctx context.Context, key string) (*types.Recommendation, error)
	Set(ctx context.Context, key string, rec *types.Recommendation, ttl time.Duration) error
	Close() error
}

// Key derives a stable cache key from a profile. Interest order does not
// affect the key; skill order does, since the first skills are quoted in the
// resume tips.
func Key(namespace string, p types.Profile) string {
	req := p.Request()
	sort.Strings(req.Interests)

	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("guidance:%s:%s", namespace, hex.EncodeToString(sum[:]))
}

// Nop is a Cache that never stores anything.
type Nop struct{}

// Get always reports a miss.
func (Nop) Get(context.Context, string) (*types.Recommendation, error) { return nil, ErrNotFound }

// Set discards the value.
func (Nop) Set(context.Context, string, *types.Recommendation, time.Duration) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }
