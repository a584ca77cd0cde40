package ai

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Seniority is the closed set of experience levels a requirement may state.
type Seniority string

const (
	Junior Seniority = "junior"
	Mid    Seniority = "mid"
	Senior Seniority = "senior"
	Lead   Seniority = "lead"
)

var expectedYears = map[Seniority]int{
	Junior: 1,
	Mid:    3,
	Senior: 5,
	Lead:   8,
}

// ParseSeniority accepts exactly one of the four levels, ignoring case and
// surrounding space. Anything else is an error.
func ParseSeniority(s string) (Seniority, error) {
	level := Seniority(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := expectedYears[level]; !ok {
		return "", fmt.Errorf("unknown experience level %q", s)
	}
	return level, nil
}

// ExpectedYears is the experience a level implies when no explicit number is given.
func (s Seniority) ExpectedYears() int {
	return expectedYears[s]
}

// RequirementSpec is the structured form of hiring criteria.
type RequirementSpec struct {
	Skills          []string  `json:"skills" yaml:"skills" validate:"dive,required"`
	Seniority       Seniority `json:"experience_level" yaml:"experience_level" validate:"required,oneof=junior mid senior lead"`
	Technologies    []string  `json:"technologies" yaml:"technologies" validate:"dive,required"`
	Domain          string    `json:"domain" yaml:"domain"`
	Summary         string    `json:"summary" yaml:"summary"`
	ExperienceYears int       `json:"experience_years,omitempty" yaml:"experience_years,omitempty" validate:"gte=0,lte=50"`
}

// RequiredExperienceYears is the explicit number of years when one was
// stated, otherwise the level's expectation.
func (r *RequirementSpec) RequiredExperienceYears() int {
	if r.ExperienceYears > 0 {
		return r.ExperienceYears
	}
	return r.Seniority.ExpectedYears()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct constraints of the requirement.
func (r *RequirementSpec) Validate() error {
	return validate.Struct(r)
}

// DocumentExtraction is the structured form of a scanned or uploaded job document.
type DocumentExtraction struct {
	Skills       []string `json:"skills" yaml:"skills"`
	Requirements []string `json:"requirements" yaml:"requirements"`
	CompanyInfo  string   `json:"company_info" yaml:"company_info"`
	RoleType     string   `json:"role_type" yaml:"role_type"`
	Summary      string   `json:"summary" yaml:"summary"`
}

// Method tells how a match score was produced.
type Method string

const (
	MethodReasoning Method = "reasoning"
	MethodFallback  Method = "fallback"
)

// MatchResult is the scored, explained compatibility of one candidate.
type MatchResult struct {
	Handle    string   `json:"handle" yaml:"handle" validate:"required"`
	Score     float64  `json:"score" yaml:"score" validate:"gte=0,lte=100"`
	Reasoning string   `json:"reasoning" yaml:"reasoning"`
	Strengths []string `json:"strengths" yaml:"strengths"`
	Concerns  []string `json:"concerns" yaml:"concerns"`
	Method    Method   `json:"method" yaml:"method"`
}

// Validate checks the struct constraints of the match.
func (m *MatchResult) Validate() error {
	return validate.Struct(m)
}

// Dedupe removes case-insensitive duplicates and blank entries, keeping the
// first spelling seen.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
