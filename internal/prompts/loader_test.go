package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_EnhancePrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(GuidanceFile, EnhanceGuidance)
	require.NoError(t, err)
	assert.Contains(t, prompt, "enhance and expand upon these suggestions")
	for _, placeholder := range []string{"{{.Skills}}", "{{.Interests}}", "{{.Education}}", "{{.Goal}}", "{{.JobRoles}}", "{{.ResumeTips}}", "{{.NextSteps}}", "{{.MinItems}}"} {
		assert.Contains(t, prompt, placeholder)
	}
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(GuidanceFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	result := Format("Skills: {{.Skills}}; Goal: {{.Goal}}; {{.Missing}}", map[string]string{
		"Skills": "Go, SQL",
		"Goal":   "job",
	})

	assert.Equal(t, "Skills: Go, SQL; Goal: job; {{.Missing}}", result)
}

func TestList(t *testing.T) {
	keys, err := List(GuidanceFile)
	require.NoError(t, err)
	assert.Equal(t, []string{EnhanceGuidance}, keys)
}
