package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/talent-scout/internal/profile"
)

type excludedHandlesFilter struct {
	handles []string
	enabled bool
	reason  string
}

// NewExcludedHandles creates a filter that removes the configured handles.
func NewExcludedHandles(handles []string) Filter {
	return &excludedHandlesFilter{handles: handles, enabled: true}
}

func (f *excludedHandlesFilter) Name() string { return "exclude_handles" }

func (f *excludedHandlesFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludedHandlesFilter) IsEnabled() bool { return f.enabled }

func (f *excludedHandlesFilter) Validate() error { return nil }

func (f *excludedHandlesFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.ExcludeHandles(f.handles)
	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *excludedHandlesFilter) Status() Status {
	details := map[string]string{}
	if len(f.handles) > 0 {
		details["handles"] = strings.Join(f.handles, ",")
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}

type excludeFileFilter struct {
	path    string
	enabled bool
	reason  string
}

// NewExcludeFile creates a filter that removes candidates listed in an exclude file.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path), enabled: true}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return f.enabled }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if f.path == "" {
		return c, Step{Initial: initial, Dropped: 0, Left: c.Len()}, nil
	}

	excluded, err := LoadExcluded(f.path)
	if err != nil {
		return c, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := c.ExcludeHandles(excluded.Handles())
	return c, Step{Initial: initial, Dropped: len(removed), Left: c.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}

type recentActivityFilter struct {
	enabled bool
	reason  string
}

// NewRecentActivity creates a filter that drops candidates without recent pushes.
func NewRecentActivity(required bool) Filter {
	f := &recentActivityFilter{enabled: required}
	if !required {
		f.reason = "not required by configuration"
	}
	return f
}

func (f *recentActivityFilter) Name() string { return "recent_activity" }

func (f *recentActivityFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *recentActivityFilter) IsEnabled() bool { return f.enabled }

func (f *recentActivityFilter) Validate() error { return nil }

func (f *recentActivityFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.Exclude(func(p *profile.CandidateProfile) bool { return !p.RecentActivity })
	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *recentActivityFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}

type minStarsFilter struct {
	threshold int
	enabled   bool
	reason    string
}

// NewMinStars creates a filter that drops candidates with fewer total stars than threshold.
func NewMinStars(threshold int) Filter {
	f := &minStarsFilter{threshold: threshold, enabled: threshold != 0}
	if threshold == 0 {
		f.reason = "no threshold configured"
	}
	return f
}

func (f *minStarsFilter) Name() string { return "min_stars" }

func (f *minStarsFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minStarsFilter) IsEnabled() bool { return f.enabled }

func (f *minStarsFilter) Validate() error {
	if f.threshold < 0 {
		return errors.New("minimum stars must not be negative")
	}
	return nil
}

func (f *minStarsFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.Exclude(func(p *profile.CandidateProfile) bool { return p.TotalStars < f.threshold })
	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *minStarsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"min": strconv.Itoa(f.threshold)},
	}
}
