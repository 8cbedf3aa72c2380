package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"
	endpoint := "/test"
	method := "GET"

	// Should allow requests up to limit
	for i := 0; i < 10; i++ {
		allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", rateInfo.Limit)
		}
		if rateInfo.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, rateInfo.Remaining)
		}
	}

	// 11th request should be denied
	allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if rateInfo.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", rateInfo.Remaining)
	}
	if rateInfo.RetryAfter <= 0 || rateInfo.RetryAfter > 6*time.Second {
		t.Errorf("Expected retry after within one refill interval, got %v", rateInfo.RetryAfter)
	}
	if !rateInfo.ResetTime.After(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_DeniedRequestDoesNotConsume(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			// One token every 100ms
			{Path: "/fast", Method: "GET", Limit: 10, Window: time.Second, Burst: 1},
		},
	})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("c", "/fast", "GET"); !allowed {
		t.Fatal("Expected first request to be allowed")
	}
	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("c", "/fast", "GET"); allowed {
			t.Fatalf("Expected request %d to be denied", i+2)
		}
	}

	time.Sleep(150 * time.Millisecond)

	if allowed, _ := limiter.Allow("c", "/fast", "GET"); !allowed {
		t.Error("Expected request to be allowed after refill; denials must not borrow tokens")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 for whitelisted, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("192.168.1.1", "/test", "GET")
	if allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/generate-guidance", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	for i := 0; i < 5; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/api/generate-guidance", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 5 {
			t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
		}
	}

	allowed, rateInfo := limiter.Allow(clientID, "/api/generate-guidance", "POST")
	if allowed {
		t.Error("Expected 6th request to be denied")
	}
	if rateInfo.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
	}

	// Other clients have their own bucket
	if allowed, _ := limiter.Allow("10.0.0.2", "/api/generate-guidance", "POST"); !allowed {
		t.Error("Expected a different client to be allowed")
	}

	// Different endpoint should use default limit
	allowed, rateInfo = limiter.Allow(clientID, "/api/catalog", "GET")
	if !allowed {
		t.Error("Expected different endpoint to be allowed")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestLimiter_UnlimitedEndpoints(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < 20; i++ {
			if allowed, _ := limiter.Allow("127.0.0.1", path, "GET"); !allowed {
				t.Fatalf("Expected %s request %d to be allowed", path, i+1)
			}
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Hour,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	var wg sync.WaitGroup
	allowedCount := 0
	var mu sync.Mutex

	// Make 200 concurrent requests (should only allow 100)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET")
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/test", "GET"); !allowed {
			t.Errorf("Expected request from %s to be allowed", clientID)
		}
	}

	if removed := limiter.cleanupBuckets(time.Now().Add(-time.Minute)); removed != 0 {
		t.Errorf("Expected recently used buckets to survive, removed %d", removed)
	}
	if removed := limiter.cleanupBuckets(time.Now().Add(time.Second)); removed != 10 {
		t.Errorf("Expected 10 idle buckets removed, got %d", removed)
	}

	// A fresh bucket starts full again
	if _, info := limiter.Allow("127.0.0.1", "/test", "GET"); info.Remaining != 9 {
		t.Errorf("Expected remaining 9 on a fresh bucket, got %d", info.Remaining)
	}
}

func TestLimiter_BucketsBoundedByTier(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	for i := 0; i < 5000; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", fmt.Sprintf("/nope/%d", i), "GET"); !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
	for i := 0; i < 20; i++ {
		limiter.Allow("127.0.0.1", fmt.Sprintf("/api/unknown/%d", i), "GET")
	}

	limiter.mu.Lock()
	count := len(limiter.buckets)
	limiter.mu.Unlock()

	// One default bucket plus the /api/ tier
	if count != 2 {
		t.Errorf("Expected 2 buckets for one client, got %d", count)
	}
}

func TestLimiter_UnmatchedPathsShareDefaultBucket(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if allowed, _ := limiter.Allow("c", fmt.Sprintf("/missing/%d", i), "GET"); !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("c", "/missing/other", "POST"); allowed {
		t.Error("Expected a new unmatched path to draw from the exhausted default bucket")
	}
}

func TestLimiter_Burst(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/burst", "POST")
		if !allowed {
			t.Errorf("Expected burst request %d to be allowed", i+1)
		}
	}

	allowed, _ := limiter.Allow("127.0.0.1", "/burst", "POST")
	if allowed {
		t.Error("Expected request after burst to be denied")
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}

	limiter.Stop() // second Stop must not panic
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/generate-guidance", Method: "POST", Limit: 60},
		{Path: "/api/", Method: "GET", Limit: 300},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "exact", path: "/api/generate-guidance", method: "POST", wantLimit: 60},
		{name: "prefix", path: "/api/catalog", method: "GET", wantLimit: 300},
		{name: "health unlimited", path: "/health", method: "GET", wantLimit: 0},
		{name: "metrics unlimited", path: "/metrics", method: "GET", wantLimit: 0},
		{name: "method mismatch", path: "/api/generate-guidance", method: "GET", wantLimit: 300},
		{name: "no match", path: "/other", method: "POST", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Expected a match")
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Expected limit %d, got %d", tt.wantLimit, got.Limit)
			}
		})
	}
}

func TestDefaultEndpointConfigs(t *testing.T) {
	t.Setenv("RATE_LIMIT_GENERATE_LIMIT", "")
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantPath  string
	}{
		{name: "generate", path: "/api/generate-guidance", method: "POST", wantLimit: 60, wantPath: "/api/generate-guidance"},
		{name: "legacy generate", path: "/generate-guidance", method: "POST", wantLimit: 60, wantPath: "/generate-guidance"},
		{name: "catalog via api prefix", path: "/api/catalog", method: "GET", wantLimit: 300, wantPath: "/api/"},
		{name: "unknown api route", path: "/api/does-not-exist", method: "GET", wantLimit: 300, wantPath: "/api/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if got == nil {
				t.Fatal("Expected a match")
			}
			if got.Limit != tt.wantLimit || got.Path != tt.wantPath {
				t.Errorf("Expected %s with limit %d, got %s with limit %d", tt.wantPath, tt.wantLimit, got.Path, got.Limit)
			}
		})
	}

	if got := MatchEndpoint("/api/catalog", "POST", configs); got != nil {
		t.Errorf("Expected POST /api/catalog to fall back to the default, got %+v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_GENERATE_LIMIT", "7")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()

	if !cfg.Enabled {
		t.Fatal("Expected rate limiting enabled")
	}
	if cfg.DefaultLimit != 42 {
		t.Errorf("Expected default limit 42, got %d", cfg.DefaultLimit)
	}
	if !cfg.Whitelist["10.0.0.2"] {
		t.Error("Expected whitelist to contain 10.0.0.2")
	}
	generate := MatchEndpoint("/generate-guidance", "POST", cfg.EndpointConfigs)
	if generate == nil || generate.Limit != 7 {
		t.Errorf("Expected generate limit 7, got %+v", generate)
	}
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	if cfg := LoadConfig(); cfg.Enabled {
		t.Error("Expected rate limiting disabled")
	}
}
