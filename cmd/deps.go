package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/ai"
	"github.com/spigell/talent-scout/internal/ai/gemini"
	"github.com/spigell/talent-scout/internal/ai/openai"
	"github.com/spigell/talent-scout/internal/document"
	"github.com/spigell/talent-scout/internal/filtering"
	"github.com/spigell/talent-scout/internal/github"
	"github.com/spigell/talent-scout/internal/interpret"
	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/profile"
	"github.com/spigell/talent-scout/internal/scoring"
	"github.com/spigell/talent-scout/internal/secrets"
)

// setup builds the logger and reads the configuration every command starts with.
func setup() (*zap.Logger, *Config) {
	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	lg.Debug("starting", zap.String("version", version), zap.Any("config", redacted(config)))
	return lg, config
}

// redacted returns a copy of the config that is safe to log.
func redacted(c *Config) Config {
	out := *c
	gh, gm, oa := *c.GitHub, *c.AI.Gemini, *c.AI.OpenAI
	reasoning := *c.AI
	for _, s := range []*string{&gh.Token, &gm.APIKey, &oa.APIKey} {
		if *s != "" {
			*s = "***"
		}
	}
	reasoning.Gemini, reasoning.OpenAI = &gm, &oa
	out.GitHub, out.AI = &gh, &reasoning
	return out
}

func newGitHub(config *Config, lg *zap.Logger) (*github.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:     "github token",
		File:     config.GitHub.TokenFile,
		Value:    config.GitHub.Token,
		Env:      "GITHUB_TOKEN",
		Optional: true,
	})
	if err != nil {
		return nil, err
	}
	if token == "" {
		lg.Warn("github token is not configured; unauthenticated requests have a low rate limit",
			zap.String("hint", "set GITHUB_TOKEN, GITHUB_TOKEN_FILE or github.token-file"),
		)
	}

	return github.New(github.Config{
		APIURL:    config.GitHub.APIURL,
		Token:     token,
		UserAgent: config.GitHub.UserAgent,
		Timeout:   config.GitHub.Timeout,
	}, lg), nil
}

func newAggregator(config *Config, source profile.Source, lg *zap.Logger) *profile.Aggregator {
	p := config.Profile
	return profile.NewAggregator(source, profile.Config{
		MaxRepositories: p.MaxRepositories,
		LanguageSample:  p.LanguageSample,
		Concurrency:     p.Concurrency,
		TopLanguages:    p.TopLanguages,
		RecentWindow:    time.Duration(p.RecentDays) * 24 * time.Hour,
	}, lg)
}

// newGenerator returns nil, nil when the reasoning collaborator is disabled.
func newGenerator(ctx context.Context, config *Config, lg *zap.Logger) (ai.Generator, error) {
	cfg := config.AI
	if !cfg.Enabled {
		return nil, nil
	}

	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case "", gemini.ProviderName:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file / GEMINI_API_KEY_FILE)", err)
		}

		gen, err := gemini.NewGenerator(ctx, gemini.Config{
			APIKey:       apiKey,
			Model:        cfg.Gemini.Model,
			MaxRetries:   cfg.Gemini.MaxRetries,
			MaxLogLength: cfg.Gemini.MaxLogLength,
		}, lg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case openai.ProviderName:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			File:  cfg.OpenAI.APIKeyFile,
			Value: cfg.OpenAI.APIKey,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, err
		}

		gen, err := openai.NewGenerator(openai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			APIKey:      apiKey,
			Headers:     cfg.OpenAI.Headers,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
		}, lg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// requireGenerator is used by commands that cannot work without reasoning.
func requireGenerator(ctx context.Context, config *Config, lg *zap.Logger) ai.Generator {
	gen, err := newGenerator(ctx, config, lg)
	if err != nil {
		lg.Fatal("building the reasoning client", zap.Error(err))
	}
	if gen == nil {
		lg.Fatal("reasoning is disabled", zap.String("hint", "set ai.enabled to true"))
	}
	return gen
}

func newInterpreter(config *Config, gen ai.Generator, lg *zap.Logger) *interpret.Interpreter {
	return interpret.New(gen, lg, config.AI.Gemini.MaxLogLength)
}

func newScorer(config *Config, gen ai.Generator, lg *zap.Logger) (*scoring.Scorer, error) {
	mode, err := scoring.ParseMode(config.Scoring.Mode)
	if err != nil {
		return nil, err
	}

	return scoring.New(gen, scoring.Config{
		BatchSize:    config.Scoring.BatchSize,
		Mode:         mode,
		MaxLogLength: config.AI.Gemini.MaxLogLength,
	}, lg), nil
}

func filterConfig(config *Config) filtering.Config {
	return filtering.Config{
		ExcludeHandles:        config.Filters.ExcludeHandles,
		ExcludeFile:           config.Filters.ExcludeFile,
		RequireRecentActivity: config.Filters.RequireRecentActivity,
		MinStars:              config.Filters.MinStars,
	}
}

func newExtractor(config *Config) document.Extractor {
	router := document.Router{Text: document.PlainText{}}
	if command := strings.TrimSpace(config.Document.OCRCommand); command != "" {
		router.OCR = document.Command{
			Path:    command,
			Args:    config.Document.OCRArgs,
			Timeout: config.Document.OCRTimeout,
		}
	}
	return router
}
