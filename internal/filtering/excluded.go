package filtering

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// ExcludedCandidates is the content of an exclude file.
type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	Handle     string
	URL        string
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

// ToExcluded converts the candidates into exclude file entries.
func (c *Candidates) ToExcluded(reason string, now time.Time) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, p := range c.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Handle:     p.Handle(),
			URL:        p.Identity.HTMLURL,
			Reason:     reason,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// LoadExcluded reads an exclude file. A missing or empty file holds no entries.
func LoadExcluded(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedCandidates{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedCandidates) Handles() []string {
	handles := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		handles = append(handles, item.Handle)
	}
	return handles
}

// ToFile replaces the file content with e.
func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// AppendToFile adds the candidates to the exclude file at path.
func AppendToFile(path, reason string, c *Candidates) error {
	existing, err := LoadExcluded(path)
	if err != nil {
		return err
	}
	existing.Append(c.ToExcluded(reason, time.Now()))
	return existing.ToFile(path)
}
