package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeTags serializes tags for storage. A nil slice encodes as "[]".
// HTML escaping is off so the stored text stays searchable as typed.
func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tags); err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeTags parses a stored tag blob. An empty blob decodes to an empty
// slice; anything that is not a JSON array of strings is an error.
func DecodeTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// SplitTags turns comma-separated free text into tags: trimmed, empty
// tokens dropped, order kept.
func SplitTags(s string) []string {
	return normalizeTags(strings.Split(s, ","))
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TagList accepts either a JSON array of strings or a comma-separated
// string and normalizes both the same way.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TagList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = TagList{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = SplitTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings")
	}
	*t = normalizeTags(list)
	return nil
}
