package testutil

import (
	"golang.org/x/crypto/bcrypt"
)

// Seeded credentials of the default user.
const (
	DefaultUserID   int64 = 1
	DefaultName           = "Ada Lovelace"
	DefaultEmail          = "ada@example.com"
	DefaultPassword       = "password123"
)

// WireOpportunity is an opportunity as the API serializes it.
type WireOpportunity struct {
	OpportunityID  int64    `json:"opportunity_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Link           string   `json:"link"`
	Source         string   `json:"source"`
	Location       string   `json:"location"`
	Deadline       *string  `json:"deadline"`
	RequiredSkills []string `json:"required_skills"`
}

type WireResource struct {
	ResourceID     int64   `json:"resource_id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	URL            string  `json:"url"`
	ResourceType   string  `json:"resource_type"`
	RelevanceScore float64 `json:"relevance_score"`
}

type WireSkill struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
}

type WireUserSkill struct {
	SkillID     int64  `json:"skill_id"`
	SkillName   string `json:"skill_name"`
	Proficiency int    `json:"proficiency"`
}

type WireProfile struct {
	UserID     int64           `json:"user_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Degree     string          `json:"degree"`
	CareerGoal string          `json:"career_goal"`
	Skills     []WireUserSkill `json:"skills"`
	ResumeURL  *string         `json:"resume_url"`
}

func date(s string) *string { return &s }

// Opportunities returns the seeded listing in server order.
func Opportunities() []WireOpportunity {
	return []WireOpportunity{
		{
			OpportunityID: 101, Title: "Backend Engineering Intern", Source: "internshala", Location: "Bangalore",
			Description:    "Build REST APIs in Go and Python for our hiring platform.",
			Link:           "https://jobs.example.com/101", Deadline: date("2026-11-30"),
			RequiredSkills: []string{"Go", "Python", "SQL"},
		},
		{
			OpportunityID: 102, Title: "Data Analyst Trainee", Source: "linkedin", Location: "Remote",
			Description:    "Analyse hiring funnels with SQL and Python dashboards.",
			Link:           "https://jobs.example.com/102", Deadline: date("2026-12-15"),
			RequiredSkills: []string{"SQL", "Python", "Excel", "Tableau", "Statistics", "Communication", "Power BI"},
		},
		{
			OpportunityID: 103, Title: "Frontend Developer", Source: "internshala", Location: "Bangalore Urban",
			Description:    "Ship React and TypeScript web apps used by students.",
			Link:           "https://jobs.example.com/103",
			RequiredSkills: []string{"React", "TypeScript"},
		},
		{
			OpportunityID: 104, Title: "Cloud Support Associate", Source: "naukri", Location: "Hyderabad",
			Description:    "Support customers running workloads on the cloud.",
			Link:           "https://jobs.example.com/104", Deadline: date("2027-01-10"),
			RequiredSkills: []string{"Linux", "Networking"},
		},
		{
			OpportunityID: 105, Title: "Machine Learning Intern", Source: "linkedin", Location: "Bangalore",
			Description:    "Train models in Python and deploy them with Docker.",
			Link:           "https://jobs.example.com/105", Deadline: date("2026-11-20"),
			RequiredSkills: []string{"Python", "Docker"},
		},
	}
}

// Resources returns the seeded catalog. The order is deliberately not sorted by score.
func Resources() []WireResource {
	return []WireResource{
		{201, "Go by Example", "Hands-on introduction to Go programming", "https://learn.example.com/go", "course", 0.72},
		{202, "Python for Data Analysis", "pandas, SQL and Python for analysts", "https://learn.example.com/pandas", "book", 0.92},
		{203, "Intro to Docker", "Containers for software development", "https://learn.example.com/docker", "video", 0.55},
		{204, "SQL Fundamentals", "Relational databases and SQL queries", "https://learn.example.com/sql", "course", 0.81},
		{205, "React Basics", "Build web interfaces with React", "https://learn.example.com/react", "course", 0.65},
		{206, "System Design Primer", "Learn how to design large-scale software systems", "https://learn.example.com/sd", "article", 0.60},
		{207, "Kubernetes Up and Running", "Operate containers at scale", "https://learn.example.com/k8s", "book", 0.50},
	}
}

// Skills returns the skill catalog.
func Skills() []WireSkill {
	return []WireSkill{
		{1, "Python"}, {2, "SQL"}, {3, "Go"}, {4, "React"}, {5, "Docker"}, {6, "Communication"},
	}
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return hash
}

func defaultUser() *fakeUser {
	return &fakeUser{
		passwordHash: mustHash(DefaultPassword),
		profile: WireProfile{
			UserID:     DefaultUserID,
			Name:       DefaultName,
			Email:      DefaultEmail,
			Degree:     "B.Tech Computer Science",
			CareerGoal: "Backend Engineer",
			Skills: []WireUserSkill{
				{SkillID: 1, SkillName: "Python", Proficiency: 3},
				{SkillID: 2, SkillName: "SQL", Proficiency: 4},
			},
		},
		saved: map[int64]bool{102: true},
	}
}
