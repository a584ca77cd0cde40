// Package skills derives a normalized skill set from repository metadata,
// language statistics and a free-text bio.
package skills

import "strings"

// MaxSkills caps the size of an extracted skill set.
const MaxSkills = 15

// Repository is the repository metadata the extractor reads.
type Repository struct {
	Name        string
	Description string
}

// Extract builds the skill set. Languages come first in the given order, then
// vocabulary hits in repository descriptions, then hits in the bio. Entries
// are lowercase, unique and at most MaxSkills long.
func Extract(repos []Repository, languages []string, bio string) []string {
	set := newOrderedSet()

	for _, lang := range languages {
		set.add(lang)
	}

	for _, repo := range repos {
		scan(set, repo.Name+" "+repo.Description)
	}

	if strings.TrimSpace(bio) != "" {
		scan(set, bio)
	}

	return set.first(MaxSkills)
}

func scan(set *orderedSet, text string) {
	text = strings.ToLower(text)
	for _, keyword := range vocabulary {
		if strings.Contains(text, keyword) {
			set.add(keyword)
		}
	}
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), items: make([]string, 0)}
}

func (s *orderedSet) add(v string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *orderedSet) first(n int) []string {
	if len(s.items) > n {
		return s.items[:n:n]
	}
	return s.items
}
