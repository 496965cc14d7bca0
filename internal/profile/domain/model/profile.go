package model

// DefaultProficiency is assigned to skills picked from the catalog.
const DefaultProficiency = 3

// Skill is an entry of the selectable skill catalog.
type Skill struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
}

// UserSkill is a skill on the user's profile with a proficiency of 1 to 5.
type UserSkill struct {
	SkillID     int64  `json:"skill_id"`
	SkillName   string `json:"skill_name"`
	Proficiency int    `json:"proficiency"`
}

// Profile is the signed-in user's profile. The client never merges
// partial updates into it; every fetch or update replaces it.
type Profile struct {
	UserID     int64       `json:"user_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Degree     string      `json:"degree"`
	CareerGoal string      `json:"career_goal"`
	Skills     []UserSkill `json:"skills"`
	ResumeURL  *string     `json:"resume_url"`
}

// SkillNames returns the names of the profile's skills in order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.SkillName)
	}
	return names
}

// SkillIDs returns the ids of the profile's skills in order.
func (p *Profile) SkillIDs() []int64 {
	ids := make([]int64, 0, len(p.Skills))
	for _, s := range p.Skills {
		ids = append(ids, s.SkillID)
	}
	return ids
}

// Resume returns the resume URL or "" when none was uploaded.
func (p *Profile) Resume() string {
	if p.ResumeURL == nil {
		return ""
	}
	return *p.ResumeURL
}

func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Skills = append([]UserSkill(nil), p.Skills...)
	if p.ResumeURL != nil {
		url := *p.ResumeURL
		c.ResumeURL = &url
	}
	return &c
}

// SkillLevel is one entry of a skills update.
type SkillLevel struct {
	SkillID     int64 `json:"skill_id"`
	Proficiency int   `json:"proficiency"`
}

// Update is a partial profile update; nil fields are left alone by the server.
type Update struct {
	Degree     *string       `json:"degree,omitempty"`
	CareerGoal *string       `json:"career_goal,omitempty"`
	Skills     *[]SkillLevel `json:"skills,omitempty"`
}

// UserStats are the server's per-user counters.
type UserStats struct {
	SkillsCount        int `json:"skills_count"`
	SavedOpportunities int `json:"saved_opportunities"`
	CompletedCourses   int `json:"completed_courses"`
}
