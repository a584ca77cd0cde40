package github

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	acceptJSON      = "application/vnd.github+json"
	apiVersion      = "2022-11-28"
	contentEncoding = "gzip"
)

// Item is a single undecoded element of a list response.
type Item = map[string]any

// GetItems makes GET requests against a list endpoint and returns items from
// consecutive pages until limit items are collected or the listing ends.
func (c *Client) GetItems(ctx context.Context, url string, q url.Values, limit int) ([]Item, error) {
	if q == nil {
		q = make(map[string][]string)
	}

	size := perPage
	if limit > 0 && limit < size {
		size = limit
	}
	q.Set("per_page", strconv.Itoa(size))

	var items []Item
	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))

		var batch []Item
		header, err := c.getJSON(ctx, url, q, &batch)
		if err != nil {
			return nil, err
		}

		items = append(items, batch...)

		if limit > 0 && len(items) >= limit {
			items = items[:limit]
			break
		}

		if len(batch) < size || !hasNextPage(header) {
			break
		}

		c.logger.Debug("additional request needed",
			zap.String("url", url),
			zap.Int("page", page+1),
			zap.Int("collected", len(items)),
		)
	}

	return items, nil
}

func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.Header, statusError(resp)
	}

	reader, err := bodyReader(resp)
	if err != nil {
		return resp.Header, err
	}
	defer reader.Close()

	if target == nil {
		return resp.Header, nil
	}

	if err := json.NewDecoder(reader).Decode(target); err != nil {
		return resp.Header, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}

	return resp.Header, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", acceptJSON)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func bodyReader(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return io.NopCloser(resp.Body), nil
	}

	return gzip.NewReader(resp.Body)
}

// hasNextPage reports whether the Link header advertises a following page.
func hasNextPage(h http.Header) bool {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			if strings.Contains(part, `rel="next"`) {
				return true
			}
		}
	}
	return false
}
