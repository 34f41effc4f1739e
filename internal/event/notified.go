package event

import (
	"encoding/json"
	"sort"
)

// IDSet is a set of event ids, used to remember what a subscriber has
// already been sent. It serializes as a sorted JSON array.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids. Duplicates collapse.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

// Has reports membership. A nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts ids and returns how many were not already present.
// Empty ids are ignored.
func (s IDSet) Add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s[id]; ok {
			continue
		}
		s[id] = struct{}{}
		added++
	}
	return added
}

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}
