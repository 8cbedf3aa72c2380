package enhance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/career-guide/internal/cache"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string) (string, error)
	calls            int
	lastPrompt       string
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt)
	}
	return enhancedJSON, nil
}

func (m *MockLLMClient) Model() string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

// memoryCache is an in-process cache.Cache for tests
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*types.Recommendation
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*types.Recommendation)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*types.Recommendation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	rec, ok := c.entries[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return rec, nil
}

func (c *memoryCache) Set(_ context.Context, key string, rec *types.Recommendation, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = rec
	return nil
}

func (c *memoryCache) Close() error { return nil }

const enhancedJSON = "```json\n" + `{
  "jobRoles": ["Data Analyst", "Analytics Engineer", "BI Developer", "Data Scientist", "ML Engineer"],
  "resumeTips": ["a", "b", "c", "d", "e"],
  "nextSteps": ["1", "2", "3", "4", "5"]
}` + "\n```"

func testProfile() types.Profile {
	return types.MustProfile(types.ProfileRequest{
		Skills:    []string{"Python", "SQL"},
		Interests: []string{types.InterestDataScience},
		Education: types.EducationBTech,
		Goal:      types.GoalJob,
	})
}

func TestEnhancer_Generate(t *testing.T) {
	client := &MockLLMClient{}
	e := New(guidance.NewLocalGenerator(nil), client, Options{})

	rec, err := e.Generate(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, []string{"Data Analyst", "Analytics Engineer", "BI Developer", "Data Scientist", "ML Engineer"}, rec.JobRoles)
	assert.Len(t, rec.ResumeTips, 5)
	assert.Len(t, rec.NextSteps, 5)

	assert.Contains(t, client.lastPrompt, "- Skills: Python, SQL")
	assert.Contains(t, client.lastPrompt, "- Interests: Data Science")
	assert.Contains(t, client.lastPrompt, "- Job Roles: Data Analyst, Data Scientist, Machine Learning Engineer")
	assert.Contains(t, client.lastPrompt, "Focus on professional experience and measurable results")
	assert.Contains(t, client.lastPrompt, "Provide at least 5 job roles")
}

func TestEnhancer_APIError(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	e := New(guidance.NewLocalGenerator(nil), client, Options{})

	_, err := e.Generate(context.Background(), testProfile())

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEnhancer_RejectsMalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "I would suggest becoming a data analyst."},
		{name: "missing key", response: `{"jobRoles":["a"],"resumeTips":["b"]}`},
		{name: "empty list", response: `{"jobRoles":[],"resumeTips":["b"],"nextSteps":["c"]}`},
		{name: "wrong types", response: `{"jobRoles":"a","resumeTips":["b"],"nextSteps":["c"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLLMClient{
				GenerateJSONFunc: func(_ context.Context, _ string) (string, error) {
					return tt.response, nil
				},
			}
			c := newMemoryCache()
			e := New(guidance.NewLocalGenerator(nil), client, Options{Cache: c})

			_, err := e.Generate(context.Background(), testProfile())

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Empty(t, c.entries, "unusable responses must not be cached")
		})
	}
}

func TestEnhancer_BaseGeneratorError(t *testing.T) {
	base := guidance.GeneratorFunc(func(_ context.Context, _ types.Profile) (*types.Recommendation, error) {
		return nil, errors.New("remote down")
	})
	client := &MockLLMClient{}
	e := New(base, client, Options{})

	_, err := e.Generate(context.Background(), testProfile())

	assert.EqualError(t, err, "remote down")
	assert.Zero(t, client.calls)
}

func TestEnhancer_CachesResults(t *testing.T) {
	client := &MockLLMClient{}
	c := newMemoryCache()
	e := New(guidance.NewLocalGenerator(nil), client, Options{Cache: c, CacheTTL: time.Minute})

	first, err := e.Generate(context.Background(), testProfile())
	require.NoError(t, err)
	second, err := e.Generate(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, client.calls)
	assert.Contains(t, c.entries, cache.Key("mock-model", testProfile()))
}

func TestEnhancer_CacheFailuresAreIgnored(t *testing.T) {
	client := &MockLLMClient{}
	c := newMemoryCache()
	c.getErr = errors.New("connection refused")
	c.setErr = errors.New("connection refused")
	e := New(guidance.NewLocalGenerator(nil), client, Options{Cache: c})

	rec, err := e.Generate(context.Background(), testProfile())

	require.NoError(t, err)
	assert.Len(t, rec.JobRoles, 5)
	assert.Equal(t, 1, client.calls)
}

func TestBuildPrompt_MinItems(t *testing.T) {
	p := testProfile()
	base := guidance.Generate(p)

	prompt := BuildPrompt(p, &base, 7)

	assert.Contains(t, prompt, "Provide at least 7 job roles, 7 resume tips, and 7 next steps.")
	assert.Contains(t, prompt, "- Education: btech")
	assert.Contains(t, prompt, "- Goal: job")
	assert.NotContains(t, prompt, "{{.")
}

func TestResponseSchema(t *testing.T) {
	schema := ResponseSchema()
	assert.ElementsMatch(t, []string{"jobRoles", "resumeTips", "nextSteps"}, schema.Required)
}
