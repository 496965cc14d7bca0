package model

import "strings"

// Filter holds the user's predicates. Empty fields do not constrain; set
// fields combine with AND.
type Filter struct {
	// Location matches as a substring of the opportunity's location.
	Location string
	// Source must equal the opportunity's source exactly.
	Source string
	// Text matches case-insensitively within title or description.
	Text string
	// Expr is a boolean expression evaluated against the opportunity.
	Expr string
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.Location == "" && f.Source == "" && strings.TrimSpace(f.Text) == "" && strings.TrimSpace(f.Expr) == ""
}

// Matches evaluates the Location, Source and Text predicates. Expr is
// evaluated separately because it needs a compiled program.
func (f Filter) Matches(o Opportunity) bool {
	if f.Location != "" && !strings.Contains(o.Location, f.Location) {
		return false
	}
	if f.Source != "" && o.Source != f.Source {
		return false
	}
	if text := strings.ToLower(strings.TrimSpace(f.Text)); text != "" {
		if !strings.Contains(strings.ToLower(o.Title), text) && !strings.Contains(strings.ToLower(o.Description), text) {
			return false
		}
	}
	return true
}

// Predicate is an extra condition ANDed with a Filter.
type Predicate func(Opportunity) (bool, error)

// Apply returns the opportunities of list that satisfy f and every extra
// predicate, in list order. list is never modified.
func Apply(list []Opportunity, f Filter, extra ...Predicate) ([]Opportunity, error) {
	out := make([]Opportunity, 0, len(list))
	for _, o := range list {
		if !f.Matches(o) {
			continue
		}
		keep := true
		for _, p := range extra {
			ok, err := p(o)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, o)
		}
	}
	return out, nil
}
