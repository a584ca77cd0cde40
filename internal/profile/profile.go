// Package profile aggregates a candidate's public code-hosting activity into
// a normalized CandidateProfile.
package profile

import "time"

const (
	minExperienceYears = 1
	maxExperienceYears = 15
)

// Identity describes the account a profile was built for.
type Identity struct {
	ID          int64  `json:"id" yaml:"id"`
	Handle      string `json:"handle" yaml:"handle"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	HTMLURL     string `json:"html_url,omitempty" yaml:"html_url,omitempty"`
}

// RepositorySummary is the per-repository part of a profile.
type RepositorySummary struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Language    string    `json:"language,omitempty" yaml:"language,omitempty"`
	Stars       int       `json:"stars" yaml:"stars"`
	Forks       int       `json:"forks" yaml:"forks"`
	PushedAt    time.Time `json:"pushed_at" yaml:"pushed_at"`
}

// CandidateProfile is built once per aggregation and not modified afterwards.
type CandidateProfile struct {
	Identity         Identity            `json:"identity" yaml:"identity"`
	Repositories     []RepositorySummary `json:"repositories" yaml:"repositories"`
	Languages        *Histogram          `json:"languages" yaml:"languages"`
	TotalStars       int                 `json:"total_stars" yaml:"total_stars"`
	TotalForks       int                 `json:"total_forks" yaml:"total_forks"`
	PrimaryLanguages []string            `json:"primary_languages" yaml:"primary_languages"`
	ExperienceYears  int                 `json:"experience_years" yaml:"experience_years"`
	RecentActivity   bool                `json:"recent_activity" yaml:"recent_activity"`
	Skills           []string            `json:"skills" yaml:"skills"`
	Readme           string              `json:"readme,omitempty" yaml:"readme,omitempty"`
}

// Handle is the candidate's platform handle.
func (p *CandidateProfile) Handle() string {
	return p.Identity.Handle
}

// ExperienceYears estimates years of experience from the account creation
// date, clamped to [1, 15]. A zero created time counts as one year.
func ExperienceYears(created, now time.Time) int {
	age := 1
	if !created.IsZero() {
		age = now.Year() - created.Year()
	}

	if age < minExperienceYears {
		return minExperienceYears
	}
	if age > maxExperienceYears {
		return maxExperienceYears
	}
	return age
}

// RecentlyActive reports whether any push happened within window before now.
func RecentlyActive(repos []RepositorySummary, now time.Time, window time.Duration) bool {
	cutoff := now.Add(-window)
	for _, repo := range repos {
		if !repo.PushedAt.IsZero() && repo.PushedAt.After(cutoff) {
			return true
		}
	}
	return false
}
