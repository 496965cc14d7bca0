package presenter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	careermodel "careerhub-client/internal/career/domain/model"
	coachmodel "careerhub-client/internal/coach/domain/model"
	dashboard "careerhub-client/internal/dashboard/usecase"
	oppmodel "careerhub-client/internal/opportunity/domain/model"
	profilemodel "careerhub-client/internal/profile/domain/model"
	resmodel "careerhub-client/internal/resource/domain/model"
	apperrors "careerhub-client/internal/shared/errors"
)

// Options is the display policy shared by every view.
type Options struct {
	SkillChipLimit   int
	DescriptionRunes int
	UrgentWithinDays int
	Now              func() time.Time
}

// Presenter renders results and banners as text.
type Presenter struct {
	w    io.Writer
	opts Options
}

func New(w io.Writer, opts Options) *Presenter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Presenter{w: w, opts: opts}
}

func (p *Presenter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

// Success prints a confirmation banner.
func (p *Presenter) Success(msg string) {
	p.printf("✔ %s\n", msg)
}

// Notice prints an informational banner.
func (p *Presenter) Notice(msg string) {
	if msg != "" {
		p.printf("ℹ %s\n", msg)
	}
}

// Error prints err as a banner. fallback replaces a server failure that came
// without a detail; retryable errors get a hint.
func (p *Presenter) Error(err error, fallback string) {
	if err == nil {
		return
	}
	msg := apperrors.UserMessage(err)
	if fallback != "" {
		msg = apperrors.UserMessageOr(err, fallback)
	}
	p.printf("✖ %s\n", msg)
	if apperrors.IsRetryable(err) {
		p.printf("  Run the command again to retry.\n")
	}
}

// Opportunities prints full cards with a saved marker.
func (p *Presenter) Opportunities(list []oppmodel.Opportunity, saved oppmodel.SavedSet) {
	if len(list) == 0 {
		p.printf("No opportunities found.\n")
		return
	}
	for i, o := range list {
		if i > 0 {
			p.printf("\n")
		}
		p.Opportunity(o, saved.Contains(o.ID))
	}
	p.printf("\n%d opportunit%s\n", len(list), plural(len(list), "y", "ies"))
}

// Opportunity prints one full card.
func (p *Presenter) Opportunity(o oppmodel.Opportunity, saved bool) {
	heart := "🤍"
	if saved {
		heart = "❤️"
	}
	p.printf("%s [%d] %s\n", heart, o.ID, o.Title)
	p.printf("   🏢 %s   📍 %s   📅 %s\n", o.Source, o.Location, Deadline(o.Deadline, p.opts.Now(), p.opts.UrgentWithinDays))
	p.printf("   %s\n", orDefault(o.Description, noDescription))
	if len(o.RequiredSkills) > 0 {
		p.printf("   Required Skills: %s\n", strings.Join(SkillChips(o.RequiredSkills, p.opts.SkillChipLimit), " · "))
	}
	if o.Link != "" {
		p.printf("   View Details → %s\n", o.Link)
	}
}

// CompactOpportunity prints the short card used on the dashboard.
func (p *Presenter) CompactOpportunity(o oppmodel.Opportunity) {
	now := p.opts.Now()
	p.printf("• %s (%s, 📍 %s)\n", o.Title, o.Source, o.Location)
	p.printf("  %s\n", Truncate(o.Description, p.opts.DescriptionRunes))
	if len(o.RequiredSkills) > 0 {
		p.printf("  %s\n", strings.Join(SkillChips(o.RequiredSkills, p.opts.SkillChipLimit), " · "))
	}
	deadline := "📅 " + Deadline(o.Deadline, now, p.opts.UrgentWithinDays)
	if left := DaysLeft(o.Deadline, now); left != "" {
		deadline += "  (" + left + ")"
	}
	p.printf("  %s\n", deadline)
}

// OpportunityStats prints the listing summary.
func (p *Presenter) OpportunityStats(stats *oppmodel.Stats) {
	p.printf("Total opportunities: %d\n", stats.Total)
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, source := range sortedKeys(stats.BySource) {
		fmt.Fprintf(tw, "  %s\t%d\n", source, stats.BySource[source])
	}
	tw.Flush()
}

// Resources prints resources in the given order, numbered, with relevance
// badges when showRelevance is set.
func (p *Presenter) Resources(list []resmodel.Resource, showRelevance bool) {
	if len(list) == 0 {
		p.printf("No resources found\n")
		return
	}
	for i, r := range list {
		if showRelevance {
			p.printf("%d. %s  [%s]\n", i+1, r.Title, MatchBadge(r))
		} else {
			p.printf("%d. %s\n", i+1, r.Title)
		}
		p.printf("   %s\n", r.Description)
		p.printf("   📚 %s → %s\n", orDefault(r.ResourceType, "Course"), r.URL)
	}
}

// Transcript prints every turn and the latest suggestions.
func (p *Presenter) Transcript(turns []coachmodel.Turn) {
	for _, t := range turns {
		p.Turn(t)
	}
}

// Turn prints one chat turn.
func (p *Presenter) Turn(t coachmodel.Turn) {
	who := "You"
	if t.Role == coachmodel.RoleAssistant {
		who = "AI"
	}
	lines := strings.Split(t.Text, "\n")
	p.printf("%s: %s\n", who, lines[0])
	indent := strings.Repeat(" ", len(who)+2)
	for _, line := range lines[1:] {
		p.printf("%s%s\n", indent, line)
	}
	if len(t.Suggestions) > 0 {
		p.printf("💡 You might also ask:\n")
		for i, s := range t.Suggestions {
			p.printf("   [%d] %s\n", i+1, s)
		}
	}
}

// CareerPaths prints ranked career paths.
func (p *Presenter) CareerPaths(paths []careermodel.CareerPath) {
	if len(paths) == 0 {
		p.printf("No career paths recommended yet.\n")
		return
	}
	for i, cp := range paths {
		if i > 0 {
			p.printf("\n")
		}
		p.printf("🚀 Path %d: %s\n", i+1, cp.Title)
		p.printf("   Why This Fits You: %s\n", cp.FitReason)
		if len(cp.MissingSkills) > 0 {
			p.printf("   Skills to Develop: %s\n", strings.Join(cp.MissingSkills, ", "))
		}
		if len(cp.Roadmap) > 0 {
			p.printf("   Learning Roadmap:\n")
			for j, step := range cp.Roadmap {
				p.printf("     %d. %s\n", j+1, step)
			}
		}
	}
}

// Profile prints the profile.
func (p *Presenter) Profile(pr *profilemodel.Profile) {
	p.printf("%s <%s>\n", pr.Name, pr.Email)
	p.printf("Degree:      %s\n", orDefault(pr.Degree, "Not specified"))
	p.printf("Career goal: %s\n", orDefault(pr.CareerGoal, "Exploring options"))
	if len(pr.Skills) == 0 {
		p.printf("Skills:      No skills added yet.\n")
	} else {
		p.printf("Skills:\n")
		tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
		for _, s := range pr.Skills {
			fmt.Fprintf(tw, "  %s\t%s\t%d/5\n", s.SkillName, Stars(s.Proficiency), s.Proficiency)
		}
		tw.Flush()
	}
	p.printf("Resume:      %s\n", orDefault(pr.Resume(), "Not uploaded"))
}

// SkillCatalog prints the selectable skills, marking those in selected.
func (p *Presenter) SkillCatalog(skills []profilemodel.Skill, selected []int64) {
	chosen := make(map[int64]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	for _, s := range skills {
		mark := " "
		if chosen[s.SkillID] {
			mark = "x"
		}
		p.printf("[%s] %3d  %s\n", mark, s.SkillID, s.SkillName)
	}
}

// Dashboard prints the dashboard summary.
func (p *Presenter) Dashboard(s *dashboard.Summary) {
	p.printf("Welcome back, %s!\n\n", s.DisplayName)
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Opportunities\t%d\n", s.OpportunityCount)
	fmt.Fprintf(tw, "Your skills\t%d\n", s.SkillCount)
	fmt.Fprintf(tw, "Saved\t%d\n", s.SavedCount)
	tw.Flush()

	p.printf("\nRecent opportunities:\n")
	if len(s.Recent) == 0 {
		p.printf("  No opportunities available.\n")
	}
	for _, o := range s.Recent {
		p.CompactOpportunity(o)
	}
	if len(s.Degraded) > 0 {
		p.printf("\n(unavailable: %s)\n", strings.Join(s.Degraded, ", "))
	}
}

// UserStats prints the user's counters.
func (p *Presenter) UserStats(s *profilemodel.UserStats) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Skills\t%d\n", s.SkillsCount)
	fmt.Fprintf(tw, "Saved opportunities\t%d\n", s.SavedOpportunities)
	fmt.Fprintf(tw, "Completed courses\t%d\n", s.CompletedCourses)
	tw.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
