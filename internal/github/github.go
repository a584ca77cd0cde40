// Package github is the code-hosting collaborator: a small REST client for
// the parts of the GitHub API that candidate aggregation needs.
package github

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-scout/internal/logger"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "spigell/talent-scout"
	// Max value for listing per page.
	perPage = 100

	defaultTimeout = 10 * time.Second
)

// Config carries the endpoint and credentials for the client.
type Config struct {
	APIURL    string
	Token     string
	UserAgent string
	Timeout   time.Duration
}

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(cfg Config, log *zap.Logger) *Client {
	c := &Client{
		token:     strings.TrimSpace(cfg.Token),
		APIURL:    strings.TrimRight(cfg.APIURL, "/"),
		UserAgent: cfg.UserAgent,
		logger:    logger.OrNop(log),
	}

	if c.APIURL == "" {
		c.APIURL = apiURL
	}
	if c.UserAgent == "" {
		c.UserAgent = userAgent
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.HTTPClient = &http.Client{Timeout: timeout}

	return c
}
