package model

import "sort"

// SavedSet is the set of opportunity ids the user has bookmarked.
type SavedSet map[int64]struct{}

func NewSavedSet(ids ...int64) SavedSet {
	s := make(SavedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SavedSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s SavedSet) Add(id int64)    { s[id] = struct{}{} }
func (s SavedSet) Remove(id int64) { delete(s, id) }

// Set adds or removes id.
func (s SavedSet) Set(id int64, saved bool) {
	if saved {
		s.Add(id)
	} else {
		s.Remove(id)
	}
}

// RestrictTo returns the subset of s whose ids appear in known.
func (s SavedSet) RestrictTo(known []Opportunity) SavedSet {
	out := make(SavedSet, len(s))
	for _, o := range known {
		if s.Contains(o.ID) {
			out.Add(o.ID)
		}
	}
	return out
}

// IDs returns the members in ascending order.
func (s SavedSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s SavedSet) Clone() SavedSet {
	out := make(SavedSet, len(s))
	for id := range s {
		out.Add(id)
	}
	return out
}
