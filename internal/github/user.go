package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// User is the identity record of a GitHub account.
type User struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Location    string    `json:"location,omitempty"`
	Email       string    `json:"email,omitempty"`
	PublicRepos int       `json:"public_repos,omitempty"`
	Followers   int       `json:"followers,omitempty"`
	Following   int       `json:"following,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty"`
}

// rawUser keeps nullable and possibly empty fields decodable.
type rawUser struct {
	ID          int64   `json:"id"`
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	AvatarURL   string  `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Email       *string `json:"email"`
	PublicRepos int     `json:"public_repos"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	HTMLURL     string  `json:"html_url"`
}

func (r rawUser) user() *User {
	return &User{
		ID:          r.ID,
		Login:       r.Login,
		Name:        deref(r.Name),
		AvatarURL:   r.AvatarURL,
		Bio:         deref(r.Bio),
		Location:    deref(r.Location),
		Email:       deref(r.Email),
		PublicRepos: r.PublicRepos,
		Followers:   r.Followers,
		Following:   r.Following,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
		HTMLURL:     r.HTMLURL,
	}
}

// GetUser fetches the identity record for login.
func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	if login == "" {
		return nil, fmt.Errorf("user login is required")
	}

	var raw rawUser
	if _, err := c.getJSON(ctx, fmt.Sprintf("%s/users/%s", c.APIURL, url.PathEscape(login)), nil, &raw); err != nil {
		return nil, fmt.Errorf("get user %s: %w", login, err)
	}

	return raw.user(), nil
}

type searchUsersResponse struct {
	TotalCount int       `json:"total_count"`
	Items      []rawUser `json:"items"`
}

// SearchUsers runs a user search ordered by repository count, most first.
func (c *Client) SearchUsers(ctx context.Context, query string, page, size int) ([]*User, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > perPage {
		size = 10
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "repositories")
	q.Set("order", "desc")
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(size))

	var resp searchUsersResponse
	if _, err := c.getJSON(ctx, c.APIURL+"/search/users", q, &resp); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	users := make([]*User, 0, len(resp.Items))
	for _, item := range resp.Items {
		users = append(users, item.user())
	}

	return users, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
