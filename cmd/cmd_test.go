package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/document"
	"github.com/spigell/talent-scout/internal/github"
	"github.com/spigell/talent-scout/internal/profile"
	"github.com/spigell/talent-scout/internal/search"
)

func sampleSearch() *search.Result {
	return &search.Result{
		ID:          "search-1",
		Requirement: &ai.RequirementSpec{Skills: []string{"Go"}, Seniority: ai.Senior},
		Matches: []ai.MatchResult{
			{Handle: "hubot", Score: 92.5, Strengths: []string{"Go"}, Method: ai.MethodReasoning},
			{Handle: "octocat", Score: 40, Concerns: []string{"No Go"}, Method: ai.MethodReasoning},
		},
		Failures: []profile.Failure{{Handle: "ghost", Err: github.ErrNotFound}},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, OutputTable, viewOfSearch(sampleSearch())))

	out := buf.String()
	assert.Contains(t, out, "search search-1")
	assert.Contains(t, out, "RANK")
	assert.Regexp(t, `1\s+hubot\s+92.5\s+reasoning\s+Go`, out)
	assert.Regexp(t, `2\s+octocat\s+40\s+reasoning`, out)
	assert.Regexp(t, `ghost\s+.*not found`, out)
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, OutputJSON, viewOfSearch(sampleSearch())))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "search-1", decoded["search_id"])
	assert.Len(t, decoded["matches"], 2)
	assert.Len(t, decoded["failures"], 1)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, OutputYAML, &ai.RequirementSpec{Skills: []string{"Go"}, Seniority: ai.Mid}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "mid", decoded["experience_level"])
}

func TestRenderProfileTable(t *testing.T) {
	p := &profile.CandidateProfile{
		Identity:         profile.Identity{Handle: "octocat", Location: "San Francisco"},
		PrimaryLanguages: []string{"Go", "Shell"},
		ExperienceYears:  6,
		Skills:           []string{"go", "docker"},
	}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "", p))

	out := buf.String()
	assert.Regexp(t, `handle:\s+octocat`, out)
	assert.Regexp(t, `languages:\s+Go, Shell`, out)
	assert.Regexp(t, `experience:\s+6 years`, out)
	assert.NotContains(t, out, "name:")
}

func TestRenderUnknownFormat(t *testing.T) {
	assert.Error(t, render(&bytes.Buffer{}, "xml", sampleSearch().Matches))
}

func TestRequirementInput(t *testing.T) {
	dir := t.TempDir()
	textFile := filepath.Join(dir, "role.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("Senior Go engineer"), 0o600))
	doc := filepath.Join(dir, "role.md")
	require.NoError(t, os.WriteFile(doc, []byte("  # Lead Rust engineer\n"), 0o600))
	image := filepath.Join(dir, "role.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	ctx := context.Background()
	extractor := document.Router{Text: document.PlainText{}}

	text, err := requirementInput{Text: " Go dev "}.resolve(ctx, extractor, nil)
	require.NoError(t, err)
	assert.Equal(t, "Go dev", text)

	text, err = requirementInput{TextFile: textFile}.resolve(ctx, extractor, nil)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", text)

	text, err = requirementInput{Document: doc}.resolve(ctx, extractor, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Lead Rust engineer", text)

	_, err = requirementInput{Document: image}.resolve(ctx, extractor, nil)
	assert.True(t, errors.Is(err, document.ErrUnsupportedInput))

	_, err = requirementInput{}.resolve(ctx, extractor, nil)
	assert.Error(t, err)

	_, err = requirementInput{Text: "a", TextFile: textFile}.resolve(ctx, extractor, nil)
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	c := &Config{
		GitHub: &GitHubConfig{Token: "ghp_secret"},
		AI:     &AIConfig{Gemini: &GeminiConfig{APIKey: "g-secret"}},
	}
	c.fillSections()

	r := redacted(c)
	assert.Equal(t, "***", r.GitHub.Token)
	assert.Equal(t, "***", r.AI.Gemini.APIKey)
	assert.Empty(t, r.AI.OpenAI.APIKey)

	assert.Equal(t, "ghp_secret", c.GitHub.Token)
	assert.Equal(t, "g-secret", c.AI.Gemini.APIKey)
}
