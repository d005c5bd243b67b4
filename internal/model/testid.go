package model

import "sort"

// TestID identifies a test declaration externally, e.g. "tast.mypkg.Simple"
// for a parent test or "tast.mypkg.Simple.variant1" for a parameterized
// variant. A variant with an empty Name shares the parent's ID.
type TestID string

// TestIDSet is an unordered set of test IDs. Filters and multi-target
// actions use it to express which declarations in a file are targeted.
type TestIDSet map[TestID]struct{}

// NewTestIDSet builds a set from the given IDs.
func NewTestIDSet(ids ...TestID) TestIDSet {
	s := make(TestIDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member of the set.
func (s TestIDSet) Has(id TestID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s TestIDSet) Add(id TestID) {
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s TestIDSet) Remove(id TestID) {
	delete(s, id)
}

// Overlap returns the intersection of s and other.
func (s TestIDSet) Overlap(other TestIDSet) TestIDSet {
	out := TestIDSet{}
	for id := range s {
		if other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Difference returns the members of s that are not in other.
func (s TestIDSet) Difference(other TestIDSet) TestIDSet {
	out := TestIDSet{}
	for id := range s {
		if !other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// IDs returns the members in sorted order for stable output.
func (s TestIDSet) IDs() []TestID {
	ids := make([]TestID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
