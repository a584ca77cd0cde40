package profile

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/logger"
)

// GenericSummary is returned whenever a narrative summary cannot be produced.
const GenericSummary = "Experienced developer with strong technical background."

const summaryInstruction = `You write short professional summaries of software developers for recruiters.
Answer with a JSON object {"summary": "..."}; the summary must be under 100 words,
mention technical strengths and experience level, and contain no markdown.`

type summaryInput struct {
	Handle           string   `json:"handle"`
	Name             string   `json:"name,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	PrimaryLanguages []string `json:"primary_languages"`
	Skills           []string `json:"skills"`
	TotalStars       int      `json:"total_stars"`
	Repositories     int      `json:"public_repositories"`
	ExperienceYears  int      `json:"experience_years"`
	RecentActivity   bool     `json:"recent_activity"`
}

// Summarize asks the generator for a short narrative about p. It never
// fails: any problem yields GenericSummary.
func Summarize(ctx context.Context, gen ai.Generator, p *CandidateProfile, log *zap.Logger) string {
	log = logger.OrNop(log)
	if gen == nil || p == nil {
		return GenericSummary
	}

	payload, err := json.Marshal(summaryInput{
		Handle:           p.Handle(),
		Name:             p.Identity.DisplayName,
		Bio:              p.Identity.Bio,
		PrimaryLanguages: p.PrimaryLanguages,
		Skills:           p.Skills,
		TotalStars:       p.TotalStars,
		Repositories:     len(p.Repositories),
		ExperienceYears:  p.ExperienceYears,
		RecentActivity:   p.RecentActivity,
	})
	if err != nil {
		return GenericSummary
	}

	raw, err := gen.GenerateContent(ctx, summaryInstruction, string(payload))
	if err != nil {
		log.Warn("profile summary unavailable", logger.HandleField(p.Handle()), zap.Error(err))
		return GenericSummary
	}

	var answer struct {
		Summary string `json:"summary"`
	}
	if err := ai.DecodeJSON(raw, &answer); err != nil || strings.TrimSpace(answer.Summary) == "" {
		log.Warn("profile summary unusable", logger.HandleField(p.Handle()), zap.Error(err))
		return GenericSummary
	}

	return strings.TrimSpace(answer.Summary)
}
