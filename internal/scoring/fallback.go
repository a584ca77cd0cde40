package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/profile"
)

const (
	skillsWeight     = 0.6
	experienceWeight = 0.4
)

// SkillsScore is the percentage of required skills found among the
// candidate's skills. A required skill matches when either string contains
// the other, ignoring case. No required skills scores 0.
func SkillsScore(required, candidate []string) float64 {
	matched, missing := matchSkills(required, candidate)
	total := len(matched) + len(missing)
	if total == 0 {
		return 0
	}
	return math.Min(100, 100*float64(len(matched))/float64(total))
}

// ExperienceScore compares years of experience; no requirement scores 100.
func ExperienceScore(candidateYears, requiredYears int) float64 {
	if requiredYears <= 0 {
		return 100
	}
	return math.Min(100, 100*float64(max(candidateYears, 0))/float64(requiredYears))
}

// FinalScore weights the two partial scores and rounds to a whole number.
func FinalScore(skills, experience float64) float64 {
	return math.Round(skillsWeight*skills + experienceWeight*experience)
}

// Fallback scores one candidate without the reasoning collaborator.
func Fallback(req *ai.RequirementSpec, p *profile.CandidateProfile) ai.MatchResult {
	matched, missing := matchSkills(req.Skills, p.Skills)
	required := req.RequiredExperienceYears()

	skills := SkillsScore(req.Skills, p.Skills)
	experience := ExperienceScore(p.ExperienceYears, required)

	strengths := make([]string, 0, len(matched)+2)
	for _, skill := range matched {
		strengths = append(strengths, "Shows "+skill+" in public work")
	}
	if required > 0 && p.ExperienceYears >= required {
		strengths = append(strengths, fmt.Sprintf("Around %d years on the platform", p.ExperienceYears))
	}
	if p.RecentActivity {
		strengths = append(strengths, "Recently active")
	}

	concerns := make([]string, 0, len(missing)+2)
	for _, skill := range missing {
		concerns = append(concerns, "No public evidence of "+skill)
	}
	if p.ExperienceYears < required {
		concerns = append(concerns, fmt.Sprintf("About %d of %d expected years of experience", p.ExperienceYears, required))
	}
	if !p.RecentActivity {
		concerns = append(concerns, "No recent public activity")
	}

	return ai.MatchResult{
		Handle: p.Handle(),
		Score:  FinalScore(skills, experience),
		Reasoning: fmt.Sprintf("Matched %d of %d required skills (skills %.0f/100, experience %.0f/100). Scored without AI analysis.",
			len(matched), len(matched)+len(missing), skills, experience),
		Strengths: strengths,
		Concerns:  concerns,
		Method:    ai.MethodFallback,
	}
}

// FallbackAll scores every profile deterministically.
func FallbackAll(req *ai.RequirementSpec, profiles []*profile.CandidateProfile) []ai.MatchResult {
	results := make([]ai.MatchResult, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, Fallback(req, p))
	}
	return results
}

func matchSkills(required, candidate []string) (matched, missing []string) {
	lowered := make([]string, 0, len(candidate))
	for _, c := range candidate {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			lowered = append(lowered, c)
		}
	}

	for _, req := range required {
		r := strings.ToLower(strings.TrimSpace(req))
		if r == "" {
			continue
		}
		if containsEither(r, lowered) {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}

func containsEither(req string, candidate []string) bool {
	for _, c := range candidate {
		if strings.Contains(c, req) || strings.Contains(req, c) {
			return true
		}
	}
	return false
}
