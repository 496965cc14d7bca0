package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Opportunity {
	return []Opportunity{
		{ID: 1, Title: "Backend Intern", Source: "internshala", Location: "Bangalore", Description: "Go and Python APIs"},
		{ID: 2, Title: "Data Analyst", Source: "linkedin", Location: "Remote", Description: "SQL dashboards in PYTHON"},
		{ID: 3, Title: "Frontend Dev", Source: "internshala", Location: "Bangalore Urban", Description: "React apps"},
		{ID: 4, Title: "Python Tutor", Source: "naukri", Location: "Hyderabad", Description: "Teach students"},
	}
}

func ids(list []Opportunity) []int64 {
	out := make([]int64, len(list))
	for i, o := range list {
		out[i] = o.ID
	}
	return out
}

func TestApply_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"empty filter keeps everything", Filter{}, []int64{1, 2, 3, 4}},
		{"location is a substring match", Filter{Location: "Bangalore"}, []int64{1, 3}},
		{"location is case sensitive", Filter{Location: "bangalore"}, []int64{}},
		{"source is exact", Filter{Source: "internshala"}, []int64{1, 3}},
		{"source does not match substrings", Filter{Source: "intern"}, []int64{}},
		{"text matches title or description ignoring case", Filter{Text: "python"}, []int64{1, 2, 4}},
		{"text is trimmed", Filter{Text: "  react "}, []int64{3}},
		{"predicates combine with AND", Filter{Location: "Bangalore", Text: "python"}, []int64{1}},
		{"all three", Filter{Location: "Bangalore", Source: "internshala", Text: "apps"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(sample(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

// Every filtered result is a subset of the input, in input order, and each
// element satisfies every set predicate.
func TestApply_SubsetAndSatisfaction(t *testing.T) {
	list := sample()
	filters := []Filter{
		{Location: "Bangalore"}, {Source: "linkedin"}, {Text: "python"},
		{Location: "e", Text: "a"}, {Location: "Remote", Source: "linkedin", Text: "sql"},
	}
	for _, f := range filters {
		got, err := Apply(list, f)
		require.NoError(t, err)

		pos := -1
		for _, o := range got {
			idx := -1
			for i, in := range list {
				if in.ID == o.ID {
					idx = i
				}
			}
			require.NotEqual(t, -1, idx, "result must come from the input")
			assert.Greater(t, idx, pos, "input order must be preserved")
			pos = idx

			if f.Location != "" {
				assert.Contains(t, o.Location, f.Location)
			}
			if f.Source != "" {
				assert.Equal(t, f.Source, o.Source)
			}
			if f.Text != "" {
				text := strings.ToLower(f.Text)
				assert.True(t, strings.Contains(strings.ToLower(o.Title), text) || strings.Contains(strings.ToLower(o.Description), text))
			}
		}
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	list := sample()
	before := ids(list)
	_, err := Apply(list, Filter{Text: "python"})
	require.NoError(t, err)
	assert.Equal(t, before, ids(list))
}

func TestApply_ExtraPredicates(t *testing.T) {
	onlyEven := func(o Opportunity) (bool, error) { return o.ID%2 == 0, nil }
	got, err := Apply(sample(), Filter{Text: "python"}, onlyEven)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, ids(got))

	boom := errors.New("boom")
	_, err = Apply(sample(), Filter{}, func(Opportunity) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.True(t, Filter{Text: "   ", Expr: " "}.IsEmpty())
	assert.False(t, Filter{Source: "x"}.IsEmpty())
	assert.False(t, Filter{Expr: "true"}.IsEmpty())
}

func TestDate_JSON(t *testing.T) {
	var o Opportunity
	require.NoError(t, json.Unmarshal([]byte(`{"opportunity_id":5,"deadline":"2026-11-30"}`), &o))
	assert.Equal(t, NewDate(2026, time.November, 30), o.Deadline)
	assert.Equal(t, "2026-11-30", o.Deadline.String())

	require.NoError(t, json.Unmarshal([]byte(`{"deadline":null}`), &o))
	assert.True(t, o.Deadline.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":""}`), &o))
	assert.True(t, o.Deadline.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2026-11-30T10:00:00Z"}`), &o))
	assert.Equal(t, NewDate(2026, time.November, 30), o.Deadline)

	assert.Error(t, json.Unmarshal([]byte(`{"deadline":"next week"}`), &o))

	out, err := json.Marshal(Opportunity{Deadline: NewDate(2027, time.January, 2)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"deadline":"2027-01-02"`)
}

func TestDate_DaysFrom(t *testing.T) {
	now := time.Date(2026, time.November, 27, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, 3, NewDate(2026, time.November, 30).DaysFrom(now))
	assert.Equal(t, 0, NewDate(2026, time.November, 27).DaysFrom(now))
	assert.Equal(t, -2, NewDate(2026, time.November, 25).DaysFrom(now))
}

func TestSavedSet(t *testing.T) {
	s := NewSavedSet(3, 1)
	assert.True(t, s.Contains(1))
	s.Set(2, true)
	s.Set(3, false)
	assert.Equal(t, []int64{1, 2}, s.IDs())

	restricted := s.RestrictTo([]Opportunity{{ID: 2}, {ID: 9}})
	assert.Equal(t, []int64{2}, restricted.IDs())

	c := s.Clone()
	c.Remove(1)
	assert.True(t, s.Contains(1))
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabSaved, ParseTab("saved"))
	assert.Equal(t, TabAll, ParseTab("all"))
	assert.Equal(t, TabAll, ParseTab("whatever"))
}
