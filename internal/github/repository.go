package github

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Repository is the subset of repository metadata used for aggregation.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Fork        bool      `json:"fork"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
	HTMLURL     string    `json:"html_url"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// OwnerLogin returns the repository owner, falling back to the given login.
func (r *Repository) OwnerLogin(fallback string) string {
	if r.Owner.Login != "" {
		return r.Owner.Login
	}
	return fallback
}

// ListRepositories returns up to limit repositories owned by login, most
// recently updated first.
func (c *Client) ListRepositories(ctx context.Context, login string, limit int) ([]*Repository, error) {
	if login == "" {
		return nil, fmt.Errorf("user login is required")
	}

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("type", "owner")

	items, err := c.GetItems(ctx, fmt.Sprintf("%s/users/%s/repos", c.APIURL, url.PathEscape(login)), q, limit)
	if err != nil {
		return nil, fmt.Errorf("list repositories of %s: %w", login, err)
	}

	repos := make([]*Repository, 0, len(items))
	cfg := &mapstructure.DecoderConfig{
		Result:           &repos,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       stringToTimeHook,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode repositories of %s: %w", login, err)
	}

	return repos, nil
}

// stringToTimeHook decodes RFC 3339 timestamps; empty or unparsable values
// become the zero time.
func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	return parseTime(data.(string)), nil
}
