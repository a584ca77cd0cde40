package github

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound reports that the requested user, repository or file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable reports that GitHub cannot serve this client right now:
	// transport failures, 5xx, rate limiting and rejected credentials (401, 403).
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// StatusError is returned for every non-successful HTTP status.
type StatusError struct {
	Code   int
	Status string
	URL    string
	// RateLimited is set when GitHub signalled an exhausted quota.
	RateLimited bool
}

func (e *StatusError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("github %s: rate limited (%s)", e.URL, e.Status)
	}
	return fmt.Sprintf("github %s: bad status: %s", e.URL, e.Status)
}

// Is maps the status onto ErrNotFound or ErrUpstreamUnavailable. A bad or
// revoked token fails every request alike, so 401 and 403 count as the
// upstream being unavailable. Other 4xx codes match neither sentinel.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrUpstreamUnavailable:
		return e.RateLimited ||
			e.Code == http.StatusUnauthorized ||
			e.Code == http.StatusForbidden ||
			e.Code == http.StatusTooManyRequests ||
			e.Code >= http.StatusInternalServerError
	default:
		return false
	}
}

func statusError(resp *http.Response) *StatusError {
	rateLimited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0")

	return &StatusError{
		Code:        resp.StatusCode,
		Status:      resp.Status,
		URL:         resp.Request.URL.Path,
		RateLimited: rateLimited,
	}
}
