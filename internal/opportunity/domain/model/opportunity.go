package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date as the API sends it ("2006-01-02", null or "").
// The zero value means "no date".
type Date struct {
	time.Time
}

// NewDate returns the date at midnight UTC of y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("deadline must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, day := t.Date()
			d.Time = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
			return nil
		}
	}
	return fmt.Errorf("unrecognised deadline %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// DaysFrom returns whole calendar days from now's date until d; negative once passed.
func (d Date) DaysFrom(now time.Time) int {
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return int(d.Sub(today).Hours() / 24)
}

// Opportunity is an immutable snapshot of a listing; identity is ID.
type Opportunity struct {
	ID             int64    `json:"opportunity_id"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Deadline       Date     `json:"deadline"`
	RequiredSkills []string `json:"required_skills"`
	Link           string   `json:"link"`
}

// Stats is the server's summary of the listing.
type Stats struct {
	Total    int            `json:"total"`
	BySource map[string]int `json:"by_source"`
}

// Tab selects which listing a view shows.
type Tab string

const (
	TabAll   Tab = "all"
	TabSaved Tab = "saved"
)

// ParseTab accepts "all" or "saved"; anything else is "all".
func ParseTab(s string) Tab {
	if Tab(s) == TabSaved {
		return TabSaved
	}
	return TabAll
}
