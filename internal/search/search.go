// Package search runs one talent search end to end: interpret the
// requirement, resolve and aggregate candidates, filter, then score.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/filtering"
	"github.com/spigell/talent-scout/internal/github"
	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/profile"
)

const (
	defaultConcurrency   = 4
	defaultDiscoverLimit = 10
)

// ErrNoCandidates is returned when neither handles nor a discovery query
// produced anyone to evaluate.
var ErrNoCandidates = errors.New("no candidates to evaluate")

type Interpreter interface {
	InterpretRequirements(ctx context.Context, text string) (*ai.RequirementSpec, error)
}

type ProfileBuilder interface {
	BuildAll(ctx context.Context, handles []string, concurrency int) ([]*profile.CandidateProfile, []profile.Failure)
}

type Scorer interface {
	Score(ctx context.Context, req *ai.RequirementSpec, profiles []*profile.CandidateProfile) ([]ai.MatchResult, error)
}

type Discoverer interface {
	SearchUsers(ctx context.Context, query string, page, size int) ([]*github.User, error)
}

// Deps are the collaborators of a search. Discovery is optional.
type Deps struct {
	Interpreter Interpreter
	Profiles    ProfileBuilder
	Scorer      Scorer
	Discovery   Discoverer
}

// Config tunes a search.
type Config struct {
	Concurrency     int
	Filters         filtering.Config
	DisabledFilters []string
}

// Request describes one search. Requirement, when set, skips interpretation.
type Request struct {
	Text          string
	Requirement   *ai.RequirementSpec
	Handles       []string
	Query         string
	DiscoverLimit int
}

// Result is everything a search produced.
type Result struct {
	ID          string
	Requirement *ai.RequirementSpec
	Candidates  *filtering.Candidates
	Matches     []ai.MatchResult
	Failures    []profile.Failure
}

type Service struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger
	newID  func() string
}

func New(deps Deps, cfg Config, log *zap.Logger) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Service{deps: deps, cfg: cfg, logger: logger.OrNop(log), newID: uuid.NewString}
}

// Run executes the search. Interpretation failures stop it; aggregation
// failures of individual candidates are reported in Result.Failures;
// scoring never fails except on cancellation.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	id := s.newID()
	log := s.logger.With(logger.SearchField(id))

	requirement, err := s.requirement(ctx, log, req)
	if err != nil {
		return nil, err
	}

	handles, err := s.handles(ctx, log, req)
	if err != nil {
		return nil, err
	}

	log.Info("aggregating candidates", zap.Int("handles", len(handles)))
	profiles, failures := s.deps.Profiles.BuildAll(ctx, handles, s.cfg.Concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	steps := filtering.Pipeline(s.cfg.Filters)
	for _, name := range s.cfg.DisabledFilters {
		if !filtering.DisableByName(steps, name, "disabled by request") {
			log.Warn("unknown filter requested to be disabled", zap.String("name", name))
		}
	}
	for _, st := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}

	candidates, err := filtering.Run(ctx, log, steps, filtering.NewCandidates(profiles))
	if err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	matches, err := s.deps.Scorer.Score(ctx, requirement, candidates.Items)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	log.Info("search completed",
		zap.Int("aggregated", len(profiles)),
		zap.Int("failed", len(failures)),
		zap.Int("scored", len(matches)),
	)

	return &Result{
		ID:          id,
		Requirement: requirement,
		Candidates:  candidates,
		Matches:     matches,
		Failures:    failures,
	}, nil
}

func (s *Service) requirement(ctx context.Context, log *zap.Logger, req Request) (*ai.RequirementSpec, error) {
	if req.Requirement != nil {
		return req.Requirement, nil
	}
	if s.deps.Interpreter == nil {
		return nil, errors.New("requirement interpretation is not configured")
	}

	spec, err := s.deps.Interpreter.InterpretRequirements(ctx, req.Text)
	if err != nil {
		log.Error("requirement interpretation failed", zap.Error(err))
		return nil, err
	}
	return spec, nil
}

func (s *Service) handles(ctx context.Context, log *zap.Logger, req Request) ([]string, error) {
	handles := make([]string, 0, len(req.Handles))
	for _, h := range req.Handles {
		if h = strings.TrimSpace(h); h != "" {
			handles = append(handles, h)
		}
	}

	if query := strings.TrimSpace(req.Query); query != "" {
		if s.deps.Discovery == nil {
			return nil, errors.New("candidate discovery is not configured")
		}
		limit := req.DiscoverLimit
		if limit <= 0 {
			limit = defaultDiscoverLimit
		}

		users, err := s.deps.Discovery.SearchUsers(ctx, query, 1, limit)
		if err != nil {
			return nil, fmt.Errorf("discover candidates: %w", err)
		}
		for _, u := range users {
			handles = append(handles, u.Login)
		}
		log.Info("candidates discovered", zap.String("query", query), zap.Int("found", len(users)))
	}

	if len(handles) == 0 {
		return nil, ErrNoCandidates
	}
	return handles, nil
}
