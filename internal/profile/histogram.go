package profile

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Histogram maps language names to byte counts and remembers the order in
// which each language was first seen.
type Histogram struct {
	order []string
	bytes map[string]int64
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{bytes: make(map[string]int64)}
}

// Add accumulates n bytes for lang. Negative counts are ignored.
func (h *Histogram) Add(lang string, n int64) {
	if lang == "" || n < 0 {
		return
	}
	if h.bytes == nil {
		h.bytes = make(map[string]int64)
	}
	if _, ok := h.bytes[lang]; !ok {
		h.order = append(h.order, lang)
	}
	h.bytes[lang] += n
}

// Merge adds every entry of other into h.
func (h *Histogram) Merge(other *Histogram) {
	if other == nil {
		return
	}
	for _, lang := range other.order {
		h.Add(lang, other.bytes[lang])
	}
}

// Bytes returns the byte count recorded for lang.
func (h *Histogram) Bytes(lang string) int64 {
	return h.bytes[lang]
}

// Languages returns language names in first-seen order.
func (h *Histogram) Languages() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Len is the number of distinct languages.
func (h *Histogram) Len() int {
	return len(h.order)
}

// Map returns a copy of the counts.
func (h *Histogram) Map() map[string]int64 {
	out := make(map[string]int64, len(h.bytes))
	for k, v := range h.bytes {
		out[k] = v
	}
	return out
}

// Top returns up to n languages by descending byte count; ties keep
// first-seen order.
func (h *Histogram) Top(n int) []string {
	langs := h.Languages()
	sort.SliceStable(langs, func(i, j int) bool {
		return h.bytes[langs[i]] > h.bytes[langs[j]]
	})
	if n >= 0 && len(langs) > n {
		langs = langs[:n]
	}
	return langs
}

// MarshalJSON writes the histogram as an object in first-seen order.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lang := range h.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lang)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(jsonInt(h.bytes[lang]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the histogram as a plain map.
func (h *Histogram) MarshalYAML() (any, error) {
	return h.Map(), nil
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
