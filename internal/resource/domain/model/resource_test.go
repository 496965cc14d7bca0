package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierOf(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{0.92, TierHigh},
		{0.81, TierHigh},
		{0.8, TierMedium},
		{0.65, TierMedium},
		{0.6, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(tt.score), "score %v", tt.score)
	}
}

func TestMatchPercent(t *testing.T) {
	assert.Equal(t, 92, Resource{RelevanceScore: 0.92}.MatchPercent())
	assert.Equal(t, 73, Resource{RelevanceScore: 0.725}.MatchPercent())
	assert.Equal(t, TierHigh, Resource{RelevanceScore: 0.92}.Tier())
}
