package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentRequest struct {
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestGenerateContent(t *testing.T) {
	var got sentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "talent-scout", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"skills\":[]}  "}}]}`))
	}))
	defer srv.Close()

	g, err := NewGenerator(Config{
		BaseURL:     srv.URL + "/v1/",
		Model:       "gpt-test",
		APIKey:      "secret",
		Headers:     map[string]string{"X-Title": "talent-scout"},
		Temperature: 0.3,
	}, nil)
	require.NoError(t, err)

	out, err := g.GenerateContent(context.Background(), "be strict", "find people")
	require.NoError(t, err)

	assert.Equal(t, `{"skills":[]}`, out)
	assert.Equal(t, "gpt-test", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be strict", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "find people", got.Messages[1].Content)
	assert.Equal(t, "gpt-test", g.Model())
}

func TestGenerateContentAcceptsFullEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}))
	defer srv.Close()

	g, err := NewGenerator(Config{BaseURL: srv.URL + "/api/chat/completions", APIKey: "k"}, nil)
	require.NoError(t, err)

	out, err := g.GenerateContent(context.Background(), "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestGenerateContentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: `upstream down`},
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited","type":"requests"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`},
		{name: "garbage", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g, err := NewGenerator(Config{BaseURL: srv.URL, APIKey: "k"}, nil)
			require.NoError(t, err)

			_, err = g.GenerateContent(context.Background(), "", "hello")
			assert.Error(t, err)
		})
	}
}

func TestGenerateContentSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	g, err := NewGenerator(Config{BaseURL: srv.URL, APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = g.GenerateContent(context.Background(), "", "hello")
	var apiErr *goopenai.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
}

func TestNewGeneratorDefaults(t *testing.T) {
	_, err := NewGenerator(Config{}, nil)
	assert.Error(t, err)

	g, err := NewGenerator(Config{APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, g.baseURL)
	assert.Equal(t, defaultModel, g.Model())
}

func TestGenerateContentRequiresMessage(t *testing.T) {
	g, err := NewGenerator(Config{APIKey: "k"}, nil)
	require.NoError(t, err)

	_, err = g.GenerateContent(context.Background(), "system", "   ")
	assert.Error(t, err)

	var nilGen *Generator
	_, err = nilGen.GenerateContent(context.Background(), "", "hello")
	assert.Error(t, err)
}
