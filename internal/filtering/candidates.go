package filtering

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spigell/talent-scout/internal/profile"
)

// Candidates is the working set passed through the filter pipeline.
type Candidates struct {
	Items []*profile.CandidateProfile
}

// NewCandidates copies items so filtering never reorders the caller's slice.
func NewCandidates(items []*profile.CandidateProfile) *Candidates {
	return &Candidates{Items: append([]*profile.CandidateProfile(nil), items...)}
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Handles lists the candidate handles in order.
func (c *Candidates) Handles() []string {
	handles := make([]string, 0, c.Len())
	for _, p := range c.Items {
		handles = append(handles, p.Handle())
	}
	return handles
}

// FindByHandle looks a candidate up ignoring case.
func (c *Candidates) FindByHandle(handle string) *profile.CandidateProfile {
	for _, p := range c.Items {
		if strings.EqualFold(p.Handle(), handle) {
			return p
		}
	}
	return nil
}

// Exclude removes every candidate matching drop, keeping the order of the
// rest, and returns the removed handles.
func (c *Candidates) Exclude(drop func(*profile.CandidateProfile) bool) []string {
	var excluded []string
	kept := c.Items[:0]
	for _, p := range c.Items {
		if drop(p) {
			excluded = append(excluded, p.Handle())
			continue
		}
		kept = append(kept, p)
	}
	clear(c.Items[len(kept):])
	c.Items = kept
	return excluded
}

// ExcludeHandles removes the listed handles, ignoring case.
func (c *Candidates) ExcludeHandles(handles []string) []string {
	if len(handles) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	return c.Exclude(func(p *profile.CandidateProfile) bool {
		_, ok := set[strings.ToLower(p.Handle())]
		return ok
	})
}

// ReportByLanguage groups candidates under their strongest language.
func (c *Candidates) ReportByLanguage() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, p := range c.Items {
		key := "unknown"
		if len(p.PrimaryLanguages) > 0 {
			key = p.PrimaryLanguages[0]
		}
		report[key] = append(report[key], map[string]string{
			"handle":   p.Handle(),
			"name":     p.Identity.DisplayName,
			"url":      p.Identity.HTMLURL,
			"location": p.Identity.Location,
			"skills":   strings.Join(p.Skills, ", "),
		})
	}
	return report
}

// DumpToTmpFile writes the candidates as indented JSON to a new temporary file.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}
