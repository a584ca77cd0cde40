package profile

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talent-scout/internal/github"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	users        map[string]*github.User
	userErr      map[string]error
	repos        map[string][]*github.Repository
	reposErr     error
	languages    map[string]github.Languages
	languageErr  map[string]error
	readmes      map[string]string
	readmeErr    error
	languageHits atomic.Int32
}

func (f *fakeSource) GetUser(_ context.Context, login string) (*github.User, error) {
	if err := f.userErr[login]; err != nil {
		return nil, err
	}
	u, ok := f.users[login]
	if !ok {
		return nil, &github.StatusError{Code: 404, Status: "404 Not Found"}
	}
	return u, nil
}

func (f *fakeSource) ListRepositories(_ context.Context, login string, limit int) ([]*github.Repository, error) {
	if f.reposErr != nil {
		return nil, f.reposErr
	}
	repos := f.repos[login]
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

func (f *fakeSource) GetLanguages(_ context.Context, _, repo string) (github.Languages, error) {
	f.languageHits.Add(1)
	if err := f.languageErr[repo]; err != nil {
		return nil, err
	}
	return f.languages[repo], nil
}

func (f *fakeSource) GetReadme(_ context.Context, owner, _ string) (string, error) {
	if f.readmeErr != nil {
		return "", f.readmeErr
	}
	text, ok := f.readmes[owner]
	if !ok {
		return "", github.ErrNotFound
	}
	return text, nil
}

func newTestAggregator(src Source, log *zap.Logger) *Aggregator {
	a := NewAggregator(src, Config{}, log)
	a.now = func() time.Time { return fixedNow }
	return a
}

func octocatSource() *fakeSource {
	return &fakeSource{
		users: map[string]*github.User{
			"octocat": {
				ID:        1,
				Login:     "octocat",
				Name:      "The Octocat",
				Bio:       "Backend engineer who likes Docker",
				CreatedAt: time.Date(2019, time.March, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		repos: map[string][]*github.Repository{
			"octocat": {
				{Name: "api-gateway", Description: "Go microservices gateway on kubernetes", Stars: 10, Forks: 2, PushedAt: fixedNow.Add(-5 * 24 * time.Hour)},
				{Name: "scripts", Stars: 1, PushedAt: fixedNow.Add(-90 * 24 * time.Hour)},
			},
		},
		languages: map[string]github.Languages{
			"api-gateway": {{Language: "Go", Bytes: 100}, {Language: "Shell", Bytes: 20}},
			"scripts":     {{Language: "Python", Bytes: 120}, {Language: "Shell", Bytes: 0}},
		},
		readmes: map[string]string{"octocat": "  Hello, I build things.  "},
	}
}

func TestBuild(t *testing.T) {
	p, err := newTestAggregator(octocatSource(), nil).Build(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "octocat", p.Handle())
	assert.Equal(t, "The Octocat", p.Identity.DisplayName)
	assert.Equal(t, 11, p.TotalStars)
	assert.Equal(t, 2, p.TotalForks)
	assert.Equal(t, 6, p.ExperienceYears)
	assert.True(t, p.RecentActivity)
	assert.Equal(t, map[string]int64{"Go": 100, "Shell": 20, "Python": 120}, p.Languages.Map())
	assert.Equal(t, []string{"Python", "Go", "Shell"}, p.PrimaryLanguages)
	assert.Equal(t, []string{"go", "shell", "python", "kubernetes", "api", "microservices", "docker"}, p.Skills)
	assert.Equal(t, "Hello, I build things.", p.Readme)
	assert.Len(t, p.Repositories, 2)
}

func TestBuildWithoutRepositories(t *testing.T) {
	src := &fakeSource{
		users: map[string]*github.User{"newbie": {Login: "newbie"}},
	}

	p, err := newTestAggregator(src, nil).Build(context.Background(), "newbie")
	require.NoError(t, err)

	assert.Zero(t, p.TotalStars)
	assert.Zero(t, p.TotalForks)
	assert.Empty(t, p.Skills)
	assert.Empty(t, p.PrimaryLanguages)
	assert.False(t, p.RecentActivity)
	assert.Equal(t, 1, p.ExperienceYears)
	assert.Empty(t, p.Readme)
}

func TestBuildBioKeywordsWithoutRepositories(t *testing.T) {
	src := &fakeSource{
		users: map[string]*github.User{"newbie": {Login: "newbie", Bio: "learning react and redis"}},
	}

	p, err := newTestAggregator(src, nil).Build(context.Background(), "newbie")
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "redis"}, p.Skills)
}

func TestBuildSurfacesIdentityErrors(t *testing.T) {
	t.Parallel()

	unavailable := fmt.Errorf("%w: connection reset", github.ErrUpstreamUnavailable)

	tests := []struct {
		name string
		src  *fakeSource
		want error
	}{
		{
			name: "unknown handle",
			src:  &fakeSource{},
			want: github.ErrNotFound,
		},
		{
			name: "identity transport failure",
			src:  &fakeSource{userErr: map[string]error{"octocat": unavailable}},
			want: github.ErrUpstreamUnavailable,
		},
		{
			name: "repository listing rate limited",
			src: &fakeSource{
				users:    map[string]*github.User{"octocat": {Login: "octocat"}},
				reposErr: &github.StatusError{Code: 403, RateLimited: true},
			},
			want: github.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestAggregator(tt.src, nil).Build(context.Background(), "octocat")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildDegradesOnLanguageFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	src := octocatSource()
	src.languageErr = map[string]error{"scripts": errors.New("repository is empty")}

	p, err := newTestAggregator(src, zap.New(core)).Build(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"Go": 100, "Shell": 20}, p.Languages.Map())
	assert.Equal(t, 11, p.TotalStars)

	entries := logs.FilterMessage("language breakdown unavailable; counting repository as empty").All()
	require.Len(t, entries, 1)

	var logged error
	for _, f := range entries[0].Context {
		if f.Key == "error" {
			logged, _ = f.Interface.(error)
		}
	}
	assert.ErrorIs(t, logged, ErrPartialAggregation)
}

func TestBuildDegradesOnReadmeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	src := octocatSource()
	src.readmeErr = fmt.Errorf("%w: timeout", github.ErrUpstreamUnavailable)

	p, err := newTestAggregator(src, zap.New(core)).Build(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Empty(t, p.Readme)
	assert.Equal(t, 1, logs.FilterMessage("profile readme unavailable").Len())
}

func TestBuildMissingReadmeIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	src := octocatSource()
	src.readmes = nil

	p, err := newTestAggregator(src, zap.New(core)).Build(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Empty(t, p.Readme)
	assert.Zero(t, logs.Len())
}

func TestBuildSamplesLanguagesButCountsAllStars(t *testing.T) {
	src := &fakeSource{
		users: map[string]*github.User{"busy": {Login: "busy"}},
		repos: map[string][]*github.Repository{},
	}
	for i := range 25 {
		src.repos["busy"] = append(src.repos["busy"], &github.Repository{Name: fmt.Sprintf("repo-%02d", i), Stars: 2, Forks: 1})
	}

	p, err := newTestAggregator(src, nil).Build(context.Background(), "busy")
	require.NoError(t, err)

	assert.EqualValues(t, 20, src.languageHits.Load())
	assert.Equal(t, 50, p.TotalStars)
	assert.Equal(t, 25, p.TotalForks)
	assert.Len(t, p.Repositories, 25)
}

func TestBuildRequiresHandle(t *testing.T) {
	_, err := newTestAggregator(&fakeSource{}, nil).Build(context.Background(), "  ")
	assert.Error(t, err)
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAggregator(octocatSource(), nil).Build(ctx, "octocat")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExperienceYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		created time.Time
		want    int
	}{
		{name: "missing creation date", created: time.Time{}, want: 1},
		{name: "created this year", created: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), want: 1},
		{name: "created in the future", created: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), want: 1},
		{name: "ordinary account", created: time.Date(2017, time.May, 1, 0, 0, 0, 0, time.UTC), want: 8},
		{name: "very old account", created: time.Date(1995, time.May, 1, 0, 0, 0, 0, time.UTC), want: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExperienceYears(tt.created, fixedNow)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
			assert.LessOrEqual(t, got, 15)
		})
	}
}

func TestRecentlyActive(t *testing.T) {
	window := 30 * 24 * time.Hour

	assert.False(t, RecentlyActive(nil, fixedNow, window))
	assert.False(t, RecentlyActive([]RepositorySummary{{}}, fixedNow, window))
	assert.False(t, RecentlyActive([]RepositorySummary{{PushedAt: fixedNow.Add(-31 * 24 * time.Hour)}}, fixedNow, window))
	assert.True(t, RecentlyActive([]RepositorySummary{{PushedAt: fixedNow.Add(-29 * 24 * time.Hour)}}, fixedNow, window))
}

func TestMergeLanguagesIsOrderIndependent(t *testing.T) {
	a := github.Languages{{Language: "Go", Bytes: 300}, {Language: "Shell", Bytes: 5}}
	b := github.Languages{{Language: "Rust", Bytes: 40}, {Language: "Go", Bytes: 1}}
	c := github.Languages{{Language: "Shell", Bytes: 7}}

	want := map[string]int64{"Go": 301, "Shell": 12, "Rust": 40}

	for _, perm := range [][]github.Languages{{a, b, c}, {c, b, a}, {b, a, c}, {nil, c, nil, a, b}} {
		assert.Equal(t, want, MergeLanguages(perm).Map())
	}
}

func TestHistogramTopBreaksTiesByFirstSeen(t *testing.T) {
	h := NewHistogram()
	h.Add("Ruby", 10)
	h.Add("Elixir", 10)
	h.Add("Go", 20)
	h.Add("C", 10)
	h.Add("Lua", 1)
	h.Add("Zig", 10)

	assert.Equal(t, []string{"Go", "Ruby", "Elixir", "C", "Zig"}, h.Top(5))
}

func TestHistogramIgnoresNegativeCounts(t *testing.T) {
	var h Histogram
	h.Add("Go", -5)
	h.Add("", 4)
	h.Add("Go", 3)

	assert.Equal(t, map[string]int64{"Go": 3}, h.Map())
}

func TestHistogramMarshalJSONKeepsOrder(t *testing.T) {
	h := NewHistogram()
	h.Add("Zig", 1)
	h.Add("Ada", 2)

	b, err := h.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"Zig":1,"Ada":2}`, string(b))
}

func TestBuildAll(t *testing.T) {
	src := octocatSource()
	src.users["hubot"] = &github.User{Login: "hubot"}

	profiles, failures := newTestAggregator(src, nil).BuildAll(context.Background(), []string{"octocat", "ghost", "Octocat", "hubot", ""}, 2)

	require.Len(t, profiles, 2)
	assert.Equal(t, "octocat", profiles[0].Handle())
	assert.Equal(t, "hubot", profiles[1].Handle())

	require.Len(t, failures, 1)
	assert.Equal(t, "ghost", failures[0].Handle)
	assert.ErrorIs(t, failures[0], github.ErrNotFound)
}
