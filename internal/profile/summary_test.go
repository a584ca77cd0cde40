package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	response string
	err      error
	message  string
}

func (s *stubGenerator) GenerateContent(_ context.Context, _, message string) (string, error) {
	s.message = message
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub" }

func TestSummarize(t *testing.T) {
	p := &CandidateProfile{
		Identity:         Identity{Handle: "octocat"},
		PrimaryLanguages: []string{"Go"},
		Skills:           []string{"go", "docker"},
		ExperienceYears:  6,
	}

	gen := &stubGenerator{response: "```json\n{\"summary\": \" Go developer with six years of open source work. \"}\n```"}
	assert.Equal(t, "Go developer with six years of open source work.", Summarize(context.Background(), gen, p, nil))
	assert.Contains(t, gen.message, `"handle":"octocat"`)
}

func TestSummarizeFallsBack(t *testing.T) {
	p := &CandidateProfile{Identity: Identity{Handle: "octocat"}}

	tests := map[string]*stubGenerator{
		"generator error": {err: errors.New("quota")},
		"not json":        {response: "Sorry, I cannot"},
		"empty summary":   {response: `{"summary": "  "}`},
	}

	for name, gen := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, GenericSummary, Summarize(context.Background(), gen, p, nil))
		})
	}

	assert.Equal(t, GenericSummary, Summarize(context.Background(), nil, p, nil))
}
