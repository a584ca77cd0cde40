package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

type readmeResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetReadme returns the decoded README of owner/repo. A repository without a
// README yields an error matching ErrNotFound.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/readme", c.APIURL, url.PathEscape(owner), url.PathEscape(repo))

	var resp readmeResponse
	if _, err := c.getJSON(ctx, endpoint, nil, &resp); err != nil {
		return "", fmt.Errorf("get readme of %s/%s: %w", owner, repo, err)
	}

	return decodeContent(resp)
}

func decodeContent(resp readmeResponse) (string, error) {
	if !strings.EqualFold(resp.Encoding, "base64") {
		return resp.Content, nil
	}

	// GitHub wraps base64 payloads at 60 columns.
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(resp.Content)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("decode readme content: %w", err)
	}

	return string(data), nil
}
