// Package scoring ranks candidate profiles against a requirement, either by
// asking the reasoning collaborator or with a deterministic formula.
package scoring

import (
	_ "embed"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/profile"
	"github.com/spigell/talent-scout/internal/utils"
)

// Mode selects the scoring path.
type Mode string

const (
	// ModeAuto uses the reasoning collaborator when one is configured.
	ModeAuto Mode = "auto"
	// ModeFallback always scores deterministically.
	ModeFallback Mode = "fallback"

	DefaultBatchSize    = 10
	defaultMaxLogLength = 500
	maxRepositoriesSent = 5
)

//go:embed prompts/match.md
var promptTemplate string

// Config tunes the scorer.
type Config struct {
	BatchSize    int
	Mode         Mode
	MaxLogLength int
}

// ParseMode validates a configured mode; empty means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeFallback:
		return ModeFallback, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q", s)
	}
}

// Scorer produces ranked match results. A nil generator means fallback only.
type Scorer struct {
	generator ai.Generator
	cfg       Config
	logger    *zap.Logger
}

func New(generator ai.Generator, cfg Config, log *zap.Logger) *Scorer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeAuto
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}
	return &Scorer{generator: generator, cfg: cfg, logger: logger.OrNop(log)}
}

// Score returns one ranked result per usable candidate. Reasoning failures
// never surface: the whole request is then scored by the fallback formula,
// so every result in a call shares the same Method. Only a missing
// requirement or a cancelled context is an error.
func (s *Scorer) Score(ctx context.Context, req *ai.RequirementSpec, profiles []*profile.CandidateProfile) ([]ai.MatchResult, error) {
	if req == nil {
		return nil, errors.New("requirement is required")
	}

	profiles = uniqueProfiles(profiles)
	if len(profiles) == 0 {
		return []ai.MatchResult{}, nil
	}

	if s.cfg.Mode == ModeFallback || s.generator == nil {
		return Rank(FallbackAll(req, profiles)), nil
	}

	results, err := s.reason(ctx, req, profiles)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("reasoning scores unusable; scoring every candidate with the fallback formula",
			zap.Int("candidates", len(profiles)),
			zap.Error(err),
		)
		return Rank(FallbackAll(req, profiles)), nil
	}

	return Rank(results), nil
}

func (s *Scorer) reason(ctx context.Context, req *ai.RequirementSpec, profiles []*profile.CandidateProfile) ([]ai.MatchResult, error) {
	instruction, err := buildInstruction(req)
	if err != nil {
		return nil, err
	}

	log := logger.WithCommonFields(s.logger, "", s.generator.Model())

	results := make([]ai.MatchResult, 0, len(profiles))
	for start := 0; start < len(profiles); start += s.cfg.BatchSize {
		batch := profiles[start:min(start+s.cfg.BatchSize, len(profiles))]

		message, err := buildMessage(batch)
		if err != nil {
			return nil, err
		}

		log.Debug("scoring batch request",
			zap.Int("batch_start", start),
			zap.Int("batch_size", len(batch)),
			zap.Int("prompt_length", utf8.RuneCountInString(instruction)+utf8.RuneCountInString(message)),
		)

		raw, err := s.generator.GenerateContent(ctx, instruction, message)
		if err != nil {
			return nil, fmt.Errorf("score batch at %d: %w", start, err)
		}

		log.Debug("scoring batch response",
			zap.Int("batch_start", start),
			zap.String("response_preview", utils.TruncateForLog(raw, s.cfg.MaxLogLength)),
		)

		matches, err := parseMatches(raw, batch, log)
		if err != nil {
			return nil, fmt.Errorf("score batch at %d: %w", start, err)
		}
		results = append(results, matches...)
	}

	return results, nil
}

// rawMatch is one entry as the collaborator wrote it. Decoding is weakly
// typed so "87" reads as 87 and a lone string reads as a one-item list.
type rawMatch struct {
	Username          string   `mapstructure:"username"`
	Handle            string   `mapstructure:"handle"`
	Score             *float64 `mapstructure:"score"`
	Reasoning         string   `mapstructure:"reasoning"`
	Strengths         []string `mapstructure:"strengths"`
	PotentialConcerns []string `mapstructure:"potential_concerns"`
	Concerns          []string `mapstructure:"concerns"`
}

// parseMatches validates one batch answer. Entries with an unknown or
// repeated handle, or a score that is missing, not finite or outside
// [0, 100], are dropped and logged. An answer with no usable entry is
// malformed as a whole.
func parseMatches(raw string, batch []*profile.CandidateProfile, log *zap.Logger) ([]ai.MatchResult, error) {
	var decoded any
	if err := ai.DecodeJSON(raw, &decoded); err != nil {
		return nil, err
	}

	entries, err := matchEntries(decoded)
	if err != nil {
		return nil, err
	}

	submitted := make(map[string]string, len(batch))
	for _, p := range batch {
		submitted[strings.ToLower(p.Handle())] = p.Handle()
	}

	seen := make(map[string]struct{}, len(entries))
	results := make([]ai.MatchResult, 0, len(entries))

	for i, entry := range entries {
		match, reason := decodeEntry(entry, submitted, seen)
		if reason != nil {
			log.Warn("reasoning entry dropped",
				zap.Int("entry", i),
				logger.HandleField(match.Handle),
				zap.Error(reason),
			)
			continue
		}
		seen[strings.ToLower(match.Handle)] = struct{}{}
		results = append(results, match)
	}

	if len(results) == 0 {
		return nil, &ai.MalformedOutputError{
			Kind:   ai.KindInvalidValue,
			Detail: fmt.Sprintf("none of %d entries usable for %d candidates", len(entries), len(batch)),
			Raw:    raw,
		}
	}

	if dropped := len(batch) - len(results); dropped > 0 {
		log.Warn("reasoning answer incomplete",
			zap.Int("candidates", len(batch)),
			zap.Int("scored", len(results)),
		)
	}

	return results, nil
}

func matchEntries(decoded any) ([]any, error) {
	switch v := decoded.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range []string{"matches", "candidates", "results"} {
			if list, ok := v[key].([]any); ok {
				return list, nil
			}
		}
		if _, ok := v["score"]; ok {
			return []any{v}, nil
		}
	}
	return nil, ai.Malformed(ai.KindSchema, "matches", "expected a list of match entries", nil)
}

func decodeEntry(entry any, submitted map[string]string, seen map[string]struct{}) (ai.MatchResult, error) {
	var rm rawMatch
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rm,
	})
	if err != nil {
		return ai.MatchResult{}, err
	}
	if err := decoder.Decode(entry); err != nil {
		return ai.MatchResult{}, ai.Malformed(ai.KindSchema, "", "", err)
	}

	handle := strings.TrimSpace(rm.Username)
	if handle == "" {
		handle = strings.TrimSpace(rm.Handle)
	}
	match := ai.MatchResult{Handle: handle}

	canonical, ok := submitted[strings.ToLower(handle)]
	if !ok {
		return match, ai.Malformed(ai.KindInvalidValue, "username", fmt.Sprintf("unknown handle %q", handle), nil)
	}
	if _, dup := seen[strings.ToLower(handle)]; dup {
		return match, ai.Malformed(ai.KindInvalidValue, "username", fmt.Sprintf("duplicate handle %q", handle), nil)
	}

	if rm.Score == nil {
		return match, ai.Malformed(ai.KindSchema, "score", "missing", nil)
	}
	score := *rm.Score
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return match, ai.Malformed(ai.KindInvalidValue, "score", "not a finite number", nil)
	}

	concerns := rm.PotentialConcerns
	if len(concerns) == 0 {
		concerns = rm.Concerns
	}

	match = ai.MatchResult{
		Handle:    canonical,
		Score:     score,
		Reasoning: strings.TrimSpace(rm.Reasoning),
		Strengths: nonEmpty(rm.Strengths),
		Concerns:  nonEmpty(concerns),
		Method:    ai.MethodReasoning,
	}
	if err := match.Validate(); err != nil {
		return match, ai.Malformed(ai.KindInvalidValue, "score", fmt.Sprintf("%v out of range", score), err)
	}

	return match, nil
}

// Rank orders results by descending score, then ascending handle.
func Rank(results []ai.MatchResult) []ai.MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Handle < results[j].Handle
	})
	return results
}

type candidateView struct {
	Username         string   `json:"username"`
	Name             string   `json:"name,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	Location         string   `json:"location,omitempty"`
	PrimaryLanguages []string `json:"primary_languages"`
	Skills           []string `json:"skills"`
	ExperienceYears  int      `json:"experience_years"`
	TotalStars       int      `json:"total_stars"`
	TotalForks       int      `json:"total_forks"`
	PublicRepos      int      `json:"public_repositories"`
	RecentActivity   bool     `json:"recent_activity"`
	TopRepositories  []string `json:"top_repositories,omitempty"`
	Readme           string   `json:"readme,omitempty"`
}

func buildInstruction(req *ai.RequirementSpec) (string, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal requirement: %w", err)
	}
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job Requirements:\n{{REQUIREMENTS_JSON}}\n\nReturn {\"matches\": [...]}."
	}
	return strings.ReplaceAll(template, "{{REQUIREMENTS_JSON}}", string(payload)), nil
}

func buildMessage(batch []*profile.CandidateProfile) (string, error) {
	views := make([]candidateView, 0, len(batch))
	for _, p := range batch {
		views = append(views, viewOf(p))
	}
	payload, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}
	return fmt.Sprintf("Analyze these %d candidate profiles:\n\n%s", len(batch), payload), nil
}

func viewOf(p *profile.CandidateProfile) candidateView {
	repos := make([]string, 0, maxRepositoriesSent)
	for _, r := range p.Repositories {
		if len(repos) == maxRepositoriesSent {
			break
		}
		line := r.Name
		if r.Description != "" {
			line += ": " + r.Description
		}
		repos = append(repos, line)
	}

	return candidateView{
		Username:         p.Handle(),
		Name:             p.Identity.DisplayName,
		Bio:              p.Identity.Bio,
		Location:         p.Identity.Location,
		PrimaryLanguages: p.PrimaryLanguages,
		Skills:           p.Skills,
		ExperienceYears:  p.ExperienceYears,
		TotalStars:       p.TotalStars,
		TotalForks:       p.TotalForks,
		PublicRepos:      len(p.Repositories),
		RecentActivity:   p.RecentActivity,
		TopRepositories:  repos,
		Readme:           utils.TruncateForLog(p.Readme, 1000),
	}
}

func uniqueProfiles(profiles []*profile.CandidateProfile) []*profile.CandidateProfile {
	seen := make(map[string]struct{}, len(profiles))
	out := make([]*profile.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		key := strings.ToLower(p.Handle())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
