package model

import (
	"fmt"
	"strings"
	"time"
)

// Role of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the chat transcript.
type Turn struct {
	Role        Role
	Text        string
	Suggestions []string
	At          time.Time
}

// Reply is the coach's answer to one message.
type Reply struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// PlanResource is a resource the learning plan points at.
type PlanResource struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// LearningPlan is the coach's personalised plan.
type LearningPlan struct {
	CurrentSkills     []string       `json:"current_skills"`
	RecommendedSkills []string       `json:"recommended_skills"`
	LearningResources []PlanResource `json:"learning_resources"`
	NextSteps         []string       `json:"next_steps"`
}

// Format renders the plan as the text of an assistant turn.
func (p LearningPlan) Format() string {
	var b strings.Builder
	b.WriteString("Here's your personalized learning plan:\n\n")

	current := strings.Join(p.CurrentSkills, ", ")
	if current == "" {
		current = "None yet"
	}
	fmt.Fprintf(&b, "📚 Current Skills: %s\n\n", current)

	b.WriteString("🎯 Recommended Skills to Learn:\n")
	for _, s := range p.RecommendedSkills {
		fmt.Fprintf(&b, "  • %s\n", s)
	}
	b.WriteString("\n📖 Top Learning Resources:\n")
	for i, r := range p.LearningResources {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, r.Title)
	}
	b.WriteString("\n✅ Next Steps:\n")
	for i, s := range p.NextSteps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
