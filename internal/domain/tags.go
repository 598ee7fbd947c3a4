package domain

import (
	"encoding/json"
	"strings"
)

// TagSet is an article's tag collection.
//
// Documents written by earlier revisions of the platform stored a single tag
// as a bare string rather than an array. TagSet decodes both shapes so old
// records read back as a one-element set.
type TagSet []string

// UnmarshalJSON accepts either a JSON array of strings or a single scalar string.
func (t *TagSet) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var tags []string
		if err := json.Unmarshal(data, &tags); err != nil {
			return err
		}
		*t = tags
		return nil
	}

	if trimmed == "null" {
		*t = nil
		return nil
	}

	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	*t = TagSet{tag}
	return nil
}

// Normalized returns the set with entries trimmed, blanks dropped, and
// duplicates removed, preserving first-seen order.
func (t TagSet) Normalized() TagSet {
	seen := make(map[string]bool, len(t))
	out := make(TagSet, 0, len(t))
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Contains reports whether tag is in the set.
func (t TagSet) Contains(tag string) bool {
	for _, candidate := range t {
		if candidate == tag {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of the given tags is in the set.
func (t TagSet) ContainsAny(tags []string) bool {
	for _, tag := range tags {
		if t.Contains(tag) {
			return true
		}
	}
	return false
}
