package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// LanguageBytes is one entry of a repository language breakdown.
type LanguageBytes struct {
	Language string
	Bytes    int64
}

// Languages is a repository language breakdown in the order GitHub reported it.
type Languages []LanguageBytes

// UnmarshalJSON decodes the JSON object while keeping key order, which a map
// would lose.
func (l *Languages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("languages: expected object, got %v", tok)
	}

	var out Languages
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("languages: unexpected key %v", keyTok)
		}

		var n int64
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("languages: value of %q: %w", key, err)
		}
		if n < 0 {
			n = 0
		}
		out = append(out, LanguageBytes{Language: key, Bytes: n})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = out
	return nil
}

// GetLanguages returns the language byte counts for owner/repo.
func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (Languages, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/languages", c.APIURL, url.PathEscape(owner), url.PathEscape(repo))

	var langs Languages
	if _, err := c.getJSON(ctx, endpoint, nil, &langs); err != nil {
		return nil, fmt.Errorf("get languages of %s/%s: %w", owner, repo, err)
	}

	return langs, nil
}
