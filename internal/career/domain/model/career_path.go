package model

// CareerPath is one recommended direction, ranked by the server.
type CareerPath struct {
	Title         string   `json:"title"`
	FitReason     string   `json:"fit_reason"`
	MissingSkills []string `json:"missing_skills"`
	Roadmap       []string `json:"roadmap"`
}
