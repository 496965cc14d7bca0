package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	careerusecase "careerhub-client/internal/career/usecase"
	coachmodel "careerhub-client/internal/coach/domain/model"
	"careerhub-client/internal/di"
	"careerhub-client/internal/navigation"
	oppmodel "careerhub-client/internal/opportunity/domain/model"
	"careerhub-client/internal/presenter"
	profileusecase "careerhub-client/internal/profile/usecase"
	sessionusecase "careerhub-client/internal/session/usecase"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/utils"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `Usage: careerhub <command> [arguments]

Commands:
  login     [--email E] [--password P]
  signup    [--name N] [--email E] [--password P] [--degree D] [--goal G]
  logout
  verify
  dashboard
  profile   [show|edit|skills|catalog|resume|stats]
  opportunities [--saved] [--location L] [--source S] [--search Q] [--where EXPR] [--stats]
  save      <id>
  unsave    <id>
  resources [search <query>|recommended]
  career
  coach     interactive chat; /plan, /clear, /quit, or a suggestion number
  plan      print a personalized learning plan
`

var errUsage = errors.New("usage")

type command struct {
	route navigation.Route
	run   func(ctx context.Context, args []string) error
}

type app struct {
	c      *di.Container
	out    *presenter.Presenter
	stdout io.Writer
	in     *bufio.Scanner
	cmds   map[string]command
}

func newApp(c *di.Container, in io.Reader, out io.Writer) *app {
	d := c.Config.Display
	a := &app{
		c:      c,
		stdout: out,
		in:     bufio.NewScanner(in),
		out: presenter.New(out, presenter.Options{
			SkillChipLimit:   d.SkillChipLimit,
			DescriptionRunes: d.DescriptionRunes,
			UrgentWithinDays: d.UrgentWithinDays,
		}),
	}
	a.cmds = map[string]command{
		"login":         {navigation.RouteLogin, a.login},
		"signup":        {navigation.RouteLogin, a.signup},
		"logout":        {"", a.logout},
		"verify":        {"", a.verify},
		"dashboard":     {navigation.RouteDashboard, a.dashboard},
		"profile":       {navigation.RouteProfile, a.profile},
		"opportunities": {navigation.RouteOpportunities, a.opportunities},
		"save":          {navigation.RouteOpportunities, a.saveCmd(true)},
		"unsave":        {navigation.RouteOpportunities, a.saveCmd(false)},
		"resources":     {navigation.RouteLearning, a.resources},
		"career":        {navigation.RouteCareer, a.career},
		"coach":         {navigation.RouteCoach, a.coach},
		"plan":          {navigation.RouteCoach, a.plan},
	}
	return a
}

// run dispatches args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(a.stdout, usage)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := a.cmds[args[0]]
	if !ok {
		fmt.Fprintf(a.stdout, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}

	ctx = utils.WithOperation(ctx, args[0])
	if cmd.route != "" {
		if _, err := a.c.Navigator.Enter(ctx, cmd.route); err != nil {
			if errors.Is(err, navigation.ErrLoginRequired) {
				a.out.Notice("Please log in first: careerhub login")
				return exitError
			}
			a.out.Error(err, "")
			return exitError
		}
	}

	err := cmd.run(ctx, args[1:])
	// A forced redirect during the command leaves a notice behind.
	a.out.Notice(a.c.Navigator.TakeNotice())
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	default:
		return exitError
	}
}

// fail prints err as a banner and returns it so the exit code reflects it.
func (a *app) fail(err error, fallback string) error {
	a.out.Error(err, fallback)
	return err
}

func (a *app) usageError(format string, args ...interface{}) error {
	fmt.Fprintf(a.stdout, format+"\n", args...)
	return errUsage
}

func (a *app) newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	return fs
}

// prompt returns value, or reads a line from stdin when it is empty.
func (a *app) prompt(label, value string) string {
	if value != "" {
		return value
	}
	fmt.Fprintf(a.stdout, "%s: ", label)
	if a.in.Scan() {
		return strings.TrimSpace(a.in.Text())
	}
	return ""
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := a.c.Auth.Login(ctx, sessionusecase.LoginRequest{
		Email:    a.prompt("Email", *email),
		Password: a.prompt("Password", *password),
	})
	if err != nil {
		return a.fail(err, sessionusecase.LoginFailedMessage)
	}
	a.out.Success(fmt.Sprintf("Logged in as %s", session.DisplayName))
	_, err = a.c.Navigator.Enter(ctx, navigation.RouteDashboard)
	return err
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := a.newFlags("signup")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "at least 6 characters")
	degree := fs.String("degree", "", "degree (optional)")
	goal := fs.String("goal", "", "career goal (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := a.c.Auth.Signup(ctx, sessionusecase.SignupRequest{
		Name:       a.prompt("Name", *name),
		Email:      a.prompt("Email", *email),
		Password:   a.prompt("Password", *password),
		Degree:     *degree,
		CareerGoal: *goal,
	})
	if err != nil {
		return a.fail(err, sessionusecase.SignupFailedMessage)
	}
	a.out.Success(fmt.Sprintf("Welcome, %s! Your account is ready.", session.DisplayName))
	_, err = a.c.Navigator.Enter(ctx, navigation.RouteDashboard)
	return err
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.c.Auth.Logout(ctx); err != nil {
		return a.fail(err, "")
	}
	a.out.Success("Logged out")
	return nil
}

func (a *app) verify(ctx context.Context, _ []string) error {
	if err := a.c.Auth.Verify(ctx); err != nil {
		return a.fail(err, "")
	}
	session, err := a.c.Auth.Current(ctx)
	if err != nil {
		return a.fail(err, "")
	}
	a.out.Success(fmt.Sprintf("Session is valid for %s", session.DisplayName))
	return nil
}

func (a *app) dashboard(ctx context.Context, _ []string) error {
	summary, err := a.c.Dashboard.Load(ctx)
	if err != nil {
		return a.fail(err, "")
	}
	a.out.Dashboard(summary)
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	store := a.c.Profile

	switch sub {
	case "show":
		p, err := store.Fetch(ctx)
		if err != nil {
			return a.fail(err, "")
		}
		a.out.Profile(p)
		return nil

	case "edit":
		current, err := store.Fetch(ctx)
		if err != nil {
			return a.fail(err, "")
		}
		fs := a.newFlags("profile edit")
		degree := fs.String("degree", current.Degree, "degree")
		goal := fs.String("goal", current.CareerGoal, "career goal")
		if err := fs.Parse(args); err != nil {
			return err
		}
		p, err := store.UpdateDetails(ctx, *degree, *goal)
		if err != nil {
			return a.fail(err, profileusecase.UpdateProfileFailedMessage)
		}
		a.out.Success("Profile updated successfully!")
		a.out.Profile(p)
		return nil

	case "skills":
		if len(args) == 0 {
			return a.usageError("usage: careerhub profile skills <id>[,<id>...]  (see: careerhub profile catalog)")
		}
		ids, err := parseIDs(strings.Join(args, ","))
		if err != nil {
			return a.fail(err, "")
		}
		p, err := store.UpdateSkills(ctx, ids)
		if err != nil {
			return a.fail(err, profileusecase.UpdateSkillsFailedMessage)
		}
		a.out.Success("Skills updated successfully!")
		a.out.Profile(p)
		return nil

	case "catalog":
		skills, err := store.SkillCatalog(ctx)
		if err != nil {
			return a.fail(err, "")
		}
		var selected []int64
		if p, err := store.Fetch(ctx); err == nil {
			selected = p.SkillIDs()
		}
		a.out.SkillCatalog(skills, selected)
		return nil

	case "resume":
		if len(args) != 1 {
			return a.usageError("usage: careerhub profile resume <file.pdf>")
		}
		p, err := store.UploadResume(ctx, args[0])
		if err != nil {
			return a.fail(err, profileusecase.UploadResumeFailedMessage)
		}
		a.out.Success("Resume uploaded successfully!")
		a.out.Notice(p.Resume())
		return nil

	case "stats":
		stats, err := store.Stats(ctx)
		if err != nil {
			return a.fail(err, "")
		}
		a.out.UserStats(stats)
		return nil
	}
	return a.usageError("unknown profile command %q", sub)
}

func (a *app) opportunities(ctx context.Context, args []string) error {
	fs := a.newFlags("opportunities")
	saved := fs.Bool("saved", false, "show only saved opportunities")
	location := fs.String("location", "", "location contains (case-sensitive)")
	source := fs.String("source", "", "exact source")
	search := fs.String("search", "", "text in title or description")
	where := fs.String("where", "", `expression, e.g. days_left < 7 && "Go" in skills`)
	stats := fs.Bool("stats", false, "print listing statistics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cache := a.c.Opportunities
	if *stats {
		s, err := cache.Stats(ctx)
		if err != nil {
			return a.fail(err, "")
		}
		a.out.OpportunityStats(s)
		return nil
	}

	tab := oppmodel.TabAll
	if *saved {
		tab = oppmodel.TabSaved
	}
	visible, err := cache.Load(ctx, tab)
	if err != nil {
		return a.fail(err, "")
	}

	filter := oppmodel.Filter{Location: *location, Source: *source, Text: *search, Expr: *where}
	if !filter.IsEmpty() {
		if visible, err = cache.ApplyFilter(filter); err != nil {
			return a.fail(err, "")
		}
	}
	a.out.Opportunities(visible, cache.Snapshot().Saved)
	return nil
}

func (a *app) saveCmd(saved bool) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			return a.usageError("usage: careerhub save|unsave <opportunity id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return a.fail(apperrors.NewValidationError(fmt.Sprintf("Invalid opportunity id %q", args[0])), "")
		}

		cache := a.c.Opportunities
		if _, err := cache.Load(ctx, oppmodel.TabAll); err != nil {
			return a.fail(err, "")
		}
		if _, err := cache.SetSaved(ctx, id, saved); err != nil {
			return a.fail(err, "")
		}
		if saved {
			a.out.Success(fmt.Sprintf("Saved opportunity %d", id))
		} else {
			a.out.Success(fmt.Sprintf("Removed opportunity %d from saved", id))
		}
		return nil
	}
}

func (a *app) resources(ctx context.Context, args []string) error {
	d := a.c.Config.Display
	uc := a.c.Resources

	if len(args) == 0 {
		list, err := uc.Catalog(ctx, d.ResourceCatalog)
		if err != nil {
			return a.fail(err, "")
		}
		a.out.Resources(list, false)
		return nil
	}

	switch args[0] {
	case "search":
		list, err := uc.Search(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return a.fail(err, "")
		}
		a.out.Resources(list, true)
		return nil
	case "recommended":
		p, err := a.c.Profile.Fetch(ctx)
		if err != nil {
			return a.fail(err, "")
		}
		list, err := uc.Recommended(ctx, p.CareerGoal, p.SkillNames(), d.ResourceRecommended)
		if err != nil {
			return a.fail(err, "")
		}
		a.out.Resources(list, true)
		return nil
	}
	return a.usageError("unknown resources command %q", args[0])
}

func (a *app) career(ctx context.Context, _ []string) error {
	paths, err := a.c.Career.Recommend(ctx)
	if err != nil {
		return a.fail(err, careerusecase.RecommendFailedMessage)
	}
	a.out.CareerPaths(paths)
	return nil
}

func (a *app) plan(ctx context.Context, _ []string) error {
	turn, err := a.c.Coach.RequestPlan(ctx)
	if turn.Text != "" {
		a.out.Turn(turn)
	}
	return err
}

func (a *app) coach(ctx context.Context, _ []string) error {
	session := a.c.Coach
	fmt.Fprintln(a.stdout, "AI Career Coach. Ask anything; /plan for a learning plan, /quit to leave.")

	for {
		fmt.Fprint(a.stdout, "> ")
		if !a.in.Scan() {
			return a.in.Err()
		}
		line := strings.TrimSpace(a.in.Text())

		var (
			turn coachmodel.Turn
			err  error
		)
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			session.Clear()
			continue
		case line == "/plan":
			turn, err = session.RequestPlan(ctx)
		default:
			if n, convErr := strconv.Atoi(line); convErr == nil {
				if suggestions := session.Suggestions(); n >= 1 && n <= len(suggestions) {
					line = suggestions[n-1]
					fmt.Fprintf(a.stdout, "You: %s\n", line)
				}
			}
			turn, err = session.Send(ctx, line)
		}

		if apperrors.IsValidation(err) {
			a.out.Error(err, "")
			continue
		}
		if turn.Text != "" {
			a.out.Turn(turn)
		}
		if apperrors.IsUnauthorized(err) || ctx.Err() != nil {
			return err
		}
	}
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid skill id %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
