package analysis

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of strings that serializes as a sorted JSON array,
// keeping report output deterministic across scans.
type StringSet map[string]struct{}

// NewStringSet returns an empty set containing the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts member into the set.
func (s StringSet) Add(member string) {
	s[member] = struct{}{}
}

// Has reports whether member is in the set.
func (s StringSet) Has(member string) bool {
	_, ok := s[member]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array back into a set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	*s = NewStringSet(members...)
	return nil
}
