package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// StyleSet is an immutable set of inline style keys.
// The zero value is the empty set. Keys are kept sorted so that two sets with
// the same members compare equal.
type StyleSet struct {
	keys []string
}

// NewStyleSet builds a set from the given keys, ignoring empty keys and duplicates.
func NewStyleSet(keys ...string) StyleSet {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return StyleSet{}
	}
	slices.Sort(out)
	return StyleSet{keys: slices.Compact(out)}
}

// Has reports whether key is a member of the set.
func (s StyleSet) Has(key string) bool {
	_, found := slices.BinarySearch(s.keys, key)
	return found
}

// Add returns a set that also contains key.
func (s StyleSet) Add(key string) StyleSet {
	if key == "" || s.Has(key) {
		return s
	}
	return NewStyleSet(append(slices.Clone(s.keys), key)...)
}

// Remove returns a set without any of the given keys.
func (s StyleSet) Remove(keys ...string) StyleSet {
	out := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		if !slices.Contains(keys, k) {
			out = append(out, k)
		}
	}
	return NewStyleSet(out...)
}

// Intersect returns the members of s that also appear in keys.
func (s StyleSet) Intersect(keys []string) StyleSet {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return NewStyleSet(out...)
}

// Keys returns a copy of the members in sorted order.
func (s StyleSet) Keys() []string {
	return slices.Clone(s.keys)
}

func (s StyleSet) Len() int { return len(s.keys) }

func (s StyleSet) IsEmpty() bool { return len(s.keys) == 0 }

// Equal reports whether both sets hold the same members.
func (s StyleSet) Equal(o StyleSet) bool {
	return slices.Equal(s.keys, o.keys)
}

func (s StyleSet) String() string {
	return "{" + strings.Join(s.keys, ",") + "}"
}

// MarshalJSON encodes the set as a sorted array of keys.
func (s StyleSet) MarshalJSON() ([]byte, error) {
	if s.keys == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.keys)
}

// UnmarshalJSON decodes an array of keys.
func (s *StyleSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewStyleSet(keys...)
	return nil
}
