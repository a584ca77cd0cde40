// Package openai implements the reasoning collaborator for OpenAI-compatible
// chat completion endpoints.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/logger"
	"github.com/spigell/talent-scout/internal/utils"
)

const (
	// ProviderName is the value logged under logger.FieldProvider.
	ProviderName = "openai"

	DefaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
	maxLogLength   = 500
)

// Config configures the endpoint. BaseURL is the API root the client appends
// /chat/completions to. Headers are sent with every request in addition to
// the bearer token.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Headers     map[string]string
	Temperature float64
	Timeout     time.Duration
}

// Generator sends one system and one user message per call.
type Generator struct {
	client      *goopenai.Client
	baseURL     string
	model       string
	temperature float32
	logger      *zap.Logger
}

// headerTransport adds fixed headers to every request.
type headerTransport struct {
	headers map[string]string
	next    http.RoundTripper
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.next.RoundTrip(req)
}

// NewGenerator builds a Generator from configuration.
func NewGenerator(cfg Config, log *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(apiKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientCfg.BaseURL = strings.TrimSuffix(base, "/chat/completions")
	} else {
		clientCfg.BaseURL = DefaultBaseURL
	}

	httpClient := &http.Client{Timeout: timeout}
	if len(cfg.Headers) > 0 {
		httpClient.Transport = headerTransport{headers: cfg.Headers, next: http.DefaultTransport}
	}
	clientCfg.HTTPClient = httpClient

	return &Generator{
		client:      goopenai.NewClientWithConfig(clientCfg),
		baseURL:     clientCfg.BaseURL,
		model:       model,
		temperature: float32(cfg.Temperature),
		logger:      logger.WithCommonFields(logger.OrNop(log), ProviderName, model),
	}, nil
}

// GenerateContent returns the content of the first choice.
func (g *Generator) GenerateContent(ctx context.Context, systemInstruction, message string) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("openai generator is not initialized")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if s := strings.TrimSpace(systemInstruction); s != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: s})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: message})

	g.logger.Debug("sending chat completion request",
		zap.String("message_preview", utils.TruncateForLog(message, maxLogLength)),
	)

	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("openai returned empty response")
	}

	g.logger.Debug("chat completion received",
		zap.String("response_preview", utils.TruncateForLog(output, maxLogLength)),
	)

	return output, nil
}

// Model is the configured model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
