package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLearningPlanFormat(t *testing.T) {
	plan := LearningPlan{
		CurrentSkills:     []string{"Python", "SQL"},
		RecommendedSkills: []string{"Go"},
		LearningResources: []PlanResource{{Title: "Go by Example"}, {Title: "Tour of Go"}},
		NextSteps:         []string{"Write a CLI"},
	}
	want := "Here's your personalized learning plan:\n\n" +
		"📚 Current Skills: Python, SQL\n\n" +
		"🎯 Recommended Skills to Learn:\n" +
		"  • Go\n" +
		"\n📖 Top Learning Resources:\n" +
		"  1. Go by Example\n" +
		"  2. Tour of Go\n" +
		"\n✅ Next Steps:\n" +
		"  1. Write a CLI"
	assert.Equal(t, want, plan.Format())
}

func TestLearningPlanFormat_NoCurrentSkills(t *testing.T) {
	assert.Contains(t, LearningPlan{}.Format(), "📚 Current Skills: None yet")
}
