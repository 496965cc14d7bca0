package model

import "math"

// Resource is a learning resource. Lists keep the order the server returned.
type Resource struct {
	ID             int64   `json:"resource_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	URL            string  `json:"url"`
	ResourceType   string  `json:"resource_type,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Tier buckets a relevance score for display.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierOf maps score to high (> 0.8), medium (> 0.6) or low.
func TierOf(score float64) Tier {
	switch {
	case score > 0.8:
		return TierHigh
	case score > 0.6:
		return TierMedium
	default:
		return TierLow
	}
}

// MatchPercent is the score rounded to a whole percentage.
func (r Resource) MatchPercent() int {
	return int(math.Round(r.RelevanceScore * 100))
}

func (r Resource) Tier() Tier {
	return TierOf(r.RelevanceScore)
}
