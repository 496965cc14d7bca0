package presenter

import (
	"fmt"
	"strings"
	"time"

	oppmodel "careerhub-client/internal/opportunity/domain/model"
	resmodel "careerhub-client/internal/resource/domain/model"
)

const (
	ellipsis          = "..."
	noDescription     = "No description available."
	noDeadline        = "No deadline"
	deadlineLayout    = "Jan 2, 2006"
	urgentMarker      = "⏰"
	defaultChipLimit  = 5
	defaultTruncation = 150
)

// SkillChips returns at most limit skills followed by a "+N more" chip for
// the rest.
func SkillChips(skills []string, limit int) []string {
	if limit <= 0 {
		limit = defaultChipLimit
	}
	if len(skills) <= limit {
		return append([]string(nil), skills...)
	}
	chips := append([]string(nil), skills[:limit]...)
	return append(chips, fmt.Sprintf("+%d more", len(skills)-limit))
}

// Truncate shortens s to n runes plus an ellipsis. An empty s becomes the
// placeholder description.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return noDescription
	}
	if n <= 0 {
		n = defaultTruncation
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + ellipsis
}

// Deadline formats d as "Jan 2, 2006", marked urgent when it is at most
// urgentDays away (or already passed).
func Deadline(d oppmodel.Date, now time.Time, urgentDays int) string {
	if d.IsZero() {
		return noDeadline
	}
	text := d.Format(deadlineLayout)
	if d.DaysFrom(now) <= urgentDays {
		return urgentMarker + " " + text
	}
	return text
}

// DaysLeft describes the time remaining until d, or "" without a deadline.
func DaysLeft(d oppmodel.Date, now time.Time) string {
	if d.IsZero() {
		return ""
	}
	switch days := d.DaysFrom(now); {
	case days < 0:
		return "Closed"
	case days == 0:
		return "Due today"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// MatchBadge renders a resource's relevance, e.g. "92% Match (high)".
func MatchBadge(r resmodel.Resource) string {
	return fmt.Sprintf("%d%% Match (%s)", r.MatchPercent(), r.Tier())
}

// Stars renders a 1 to 5 proficiency as filled and empty stars.
func Stars(proficiency int) string {
	if proficiency < 0 {
		proficiency = 0
	}
	if proficiency > 5 {
		proficiency = 5
	}
	return strings.Repeat("★", proficiency) + strings.Repeat("☆", 5-proficiency)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
