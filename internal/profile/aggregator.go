package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/talent-scout/internal/github"
	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/skills"
)

// ErrPartialAggregation tags a non-critical sub-fetch failure that was
// absorbed into a degraded profile.
var ErrPartialAggregation = errors.New("partial aggregation failure")

// Source is the code-hosting collaborator consumed by the aggregator.
type Source interface {
	GetUser(ctx context.Context, login string) (*github.User, error)
	ListRepositories(ctx context.Context, login string, limit int) ([]*github.Repository, error)
	GetLanguages(ctx context.Context, owner, repo string) (github.Languages, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
}

// Config tunes how much of an account is sampled.
type Config struct {
	MaxRepositories int
	LanguageSample  int
	Concurrency     int
	TopLanguages    int
	RecentWindow    time.Duration
}

// DefaultConfig returns the sampling limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxRepositories: 100,
		LanguageSample:  20,
		Concurrency:     8,
		TopLanguages:    5,
		RecentWindow:    30 * 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRepositories <= 0 {
		c.MaxRepositories = d.MaxRepositories
	}
	if c.LanguageSample <= 0 {
		c.LanguageSample = d.LanguageSample
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.TopLanguages <= 0 {
		c.TopLanguages = d.TopLanguages
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = d.RecentWindow
	}
	return c
}

// Aggregator builds candidate profiles from live remote data.
type Aggregator struct {
	source Source
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewAggregator(source Source, cfg Config, log *zap.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		cfg:    cfg.withDefaults(),
		logger: logger.OrNop(log),
		now:    time.Now,
	}
}

// Build aggregates the profile of handle. Identity and repository listing
// failures are returned as is, so callers can test them with
// github.ErrNotFound and github.ErrUpstreamUnavailable. Language and README
// failures only degrade the result.
func (a *Aggregator) Build(ctx context.Context, handle string) (*CandidateProfile, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("candidate handle is required")
	}

	log := a.logger.With(logger.HandleField(handle))

	user, err := a.source.GetUser(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("build profile %s: %w", handle, err)
	}

	repos, err := a.source.ListRepositories(ctx, user.Login, a.cfg.MaxRepositories)
	if err != nil {
		return nil, fmt.Errorf("build profile %s: %w", handle, err)
	}

	sample := repos
	if len(sample) > a.cfg.LanguageSample {
		sample = sample[:a.cfg.LanguageSample]
	}

	histograms := make([]github.Languages, len(sample))
	var readme string

	g := errgroup.Group{}
	g.SetLimit(a.cfg.Concurrency)

	for i, repo := range sample {
		g.Go(func() error {
			langs, err := a.source.GetLanguages(ctx, repo.OwnerLogin(user.Login), repo.Name)
			if err != nil {
				log.Warn("language breakdown unavailable; counting repository as empty",
					zap.String("repository", repo.Name),
					zap.Error(fmt.Errorf("%w: %w", ErrPartialAggregation, err)),
				)
				return nil
			}
			histograms[i] = langs
			return nil
		})
	}

	g.Go(func() error {
		readme = a.fetchReadme(ctx, log, user.Login)
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build profile %s: %w", handle, err)
	}

	p := a.assemble(user, repos, histograms, readme)
	log.Debug("profile built",
		zap.Int("repositories", len(repos)),
		zap.Int("skills", len(p.Skills)),
		zap.String("vocabulary", skills.VocabularyVersion),
	)
	return p, nil
}

func (a *Aggregator) fetchReadme(ctx context.Context, log *zap.Logger, login string) string {
	text, err := a.source.GetReadme(ctx, login, login)
	switch {
	case err == nil:
		return strings.TrimSpace(text)
	case errors.Is(err, github.ErrNotFound):
		log.Debug("no profile readme", zap.String("repository", login))
	default:
		log.Warn("profile readme unavailable",
			zap.Error(fmt.Errorf("%w: %w", ErrPartialAggregation, err)),
		)
	}
	return ""
}

func (a *Aggregator) assemble(user *github.User, repos []*github.Repository, histograms []github.Languages, readme string) *CandidateProfile {
	merged := MergeLanguages(histograms)

	summaries := make([]RepositorySummary, 0, len(repos))
	extractable := make([]skills.Repository, 0, len(repos))
	var stars, forks int

	for _, repo := range repos {
		stars += repo.Stars
		forks += repo.Forks

		summaries = append(summaries, RepositorySummary{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			PushedAt:    repo.PushedAt,
		})
		extractable = append(extractable, skills.Repository{Name: repo.Name, Description: repo.Description})
	}

	now := a.now()

	return &CandidateProfile{
		Identity: Identity{
			ID:          user.ID,
			Handle:      user.Login,
			DisplayName: user.Name,
			AvatarURL:   user.AvatarURL,
			Bio:         user.Bio,
			Location:    user.Location,
			HTMLURL:     user.HTMLURL,
		},
		Repositories:     summaries,
		Languages:        merged,
		TotalStars:       stars,
		TotalForks:       forks,
		PrimaryLanguages: merged.Top(a.cfg.TopLanguages),
		ExperienceYears:  ExperienceYears(user.CreatedAt, now),
		RecentActivity:   RecentlyActive(summaries, now, a.cfg.RecentWindow),
		Skills:           skills.Extract(extractable, merged.Languages(), user.Bio),
		Readme:           readme,
	}
}

// MergeLanguages sums per-repository breakdowns. Languages are ordered by
// first appearance walking the slice in order, so the outcome does not depend
// on which fetch finished first.
func MergeLanguages(perRepo []github.Languages) *Histogram {
	merged := NewHistogram()
	for _, langs := range perRepo {
		for _, entry := range langs {
			merged.Add(entry.Language, entry.Bytes)
		}
	}
	return merged
}
