package testutil

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// BaseURL is the API root the fake backend answers on.
const BaseURL = "http://careerhub.test/api"

const localsUserID = "user_id"

type fakeUser struct {
	passwordHash []byte
	profile      WireProfile
	saved        map[int64]bool
}

type sessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type injectedFailure struct {
	status int
	body   interface{}
}

type gate struct {
	arrived chan struct{}
	release chan struct{}
}

// CoachReply produces the coach's answer to message. ok=false makes the
// backend answer {"success": false}.
type CoachReply func(message string) (response string, suggestions []string, ok bool)

// Backend is an in-process implementation of the career platform API served
// through fiber's test transport. It is safe for concurrent use.
type Backend struct {
	app *fiber.App

	mu         sync.Mutex
	secret     []byte
	nextUserID int64
	users      map[int64]*fakeUser
	emails     map[string]int64
	revoked    map[string]bool

	opportunities []WireOpportunity
	resources     []WireResource
	skills        []WireSkill
	coach         CoachReply

	calls    map[string]int
	chatLog  []string
	failures map[string][]injectedFailure
	gates    map[string]*gate
}

// NewBackend builds a backend seeded with the default user and fixtures.
func NewBackend() *Backend {
	b := &Backend{
		secret:        []byte("fake-backend-secret-0123456789abcdef"),
		nextUserID:    DefaultUserID + 1,
		users:         map[int64]*fakeUser{DefaultUserID: defaultUser()},
		emails:        map[string]int64{DefaultEmail: DefaultUserID},
		revoked:       make(map[string]bool),
		opportunities: Opportunities(),
		resources:     Resources(),
		skills:        Skills(),
		coach:         defaultCoachReply,
		calls:         make(map[string]int),
		failures:      make(map[string][]injectedFailure),
		gates:         make(map[string]*gate),
	}
	b.app = fiber.New(fiber.Config{DisableStartupMessage: true, BodyLimit: 8 << 20})
	b.routes()
	return b
}

func defaultCoachReply(message string) (string, []string, bool) {
	return "Coach: " + message, []string{"Tell me more", "Show resources"}, true
}

// RoundTrip implements http.RoundTripper.
func (b *Backend) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := b.app.Test(req, -1)
	if err != nil {
		return nil, err
	}
	resp.Request = req
	return resp, nil
}

// HTTPClient returns a client whose requests are served by b.
func (b *Backend) HTTPClient() *http.Client {
	return &http.Client{Transport: b, Timeout: 10 * time.Second}
}

func key(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// Calls reports how many requests reached method+path (path without /api).
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key(method, path)]
}

// TotalCalls reports how many requests reached the backend at all.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// ChatLog returns the chat messages in the order the backend received them.
func (b *Backend) ChatLog() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.chatLog...)
}

// FailNext makes the next request to method+path answer status with body.
func (b *Backend) FailNext(method, path string, status int, body interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key(method, path)
	b.failures[k] = append(b.failures[k], injectedFailure{status: status, body: body})
}

// Block holds every request to method+path until release is called. arrived
// receives once per held request.
func (b *Backend) Block(method, path string) (arrived <-chan struct{}, release func()) {
	g := &gate{arrived: make(chan struct{}, 32), release: make(chan struct{})}
	b.mu.Lock()
	b.gates[key(method, path)] = g
	b.mu.Unlock()

	var once sync.Once
	return g.arrived, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.gates, key(method, path))
			b.mu.Unlock()
			close(g.release)
		})
	}
}

// SetCoachReply replaces the coach's answer function.
func (b *Backend) SetCoachReply(fn CoachReply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.coach = fn
}

// SetOpportunities replaces the listing.
func (b *Backend) SetOpportunities(opps []WireOpportunity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opportunities = opps
}

// SavedIDs returns the server-side saved set of userID, sorted.
func (b *Backend) SavedIDs(userID int64) []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[userID]
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(u.saved))
	for id := range u.saved {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Profile returns a copy of userID's profile.
func (b *Backend) Profile(userID int64) WireProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.users[userID].profile
}

// IssueToken signs a session token for userID.
func (b *Backend) IssueToken(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueLocked(userID)
}

func (b *Backend) issueLocked(userID int64) string {
	now := time.Now()
	claims := &sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        fmt.Sprintf("%d-%d", userID, now.UnixNano()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// ExpireAll invalidates every token issued so far.
func (b *Backend) ExpireAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.secret = []byte(fmt.Sprintf("rotated-%d-0123456789abcdef", time.Now().UnixNano()))
}

func (b *Backend) validate(token string) (int64, error) {
	b.mu.Lock()
	secret := b.secret
	revoked := b.revoked[token]
	b.mu.Unlock()
	if revoked {
		return 0, errors.New("token revoked")
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (b *Backend) instrument(c *fiber.Ctx) error {
	k := key(c.Method(), fiberutils.CopyString(strings.TrimPrefix(c.Path(), "/api")))

	b.mu.Lock()
	b.calls[k]++
	g := b.gates[k]
	b.mu.Unlock()

	if g != nil {
		g.arrived <- struct{}{}
		<-g.release
	}

	b.mu.Lock()
	var failure *injectedFailure
	if q := b.failures[k]; len(q) > 0 {
		failure = &q[0]
		b.failures[k] = q[1:]
	}
	b.mu.Unlock()

	if failure != nil {
		return c.Status(failure.status).JSON(failure.body)
	}
	return c.Next()
}

func (b *Backend) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Not authenticated"})
	}
	userID, err := b.validate(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid or expired session"})
	}
	c.Locals(localsUserID, userID)
	return c.Next()
}

func currentUser(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localsUserID).(int64)
	return id
}

func (b *Backend) routes() {
	api := b.app.Group("/api", b.instrument)

	api.Post("/auth/login", b.login)
	api.Post("/auth/signup", b.signup)
	api.Post("/auth/logout", b.requireAuth, b.logout)
	api.Get("/auth/verify", b.requireAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "user_id": currentUser(c)})
	})

	api.Get("/user/profile", b.requireAuth, b.profile)
	api.Post("/user/update", b.requireAuth, b.updateProfile)
	api.Post("/user/upload_resume", b.requireAuth, b.uploadResume)
	api.Get("/user/skills/all", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "skills": b.skills})
	})
	api.Get("/user/stats", b.requireAuth, b.userStats)

	api.Post("/career/path", b.requireAuth, b.careerPath)
	api.Post("/coach/chat", b.requireAuth, b.coachChat)
	api.Get("/coach/plan", b.requireAuth, b.coachPlan)

	api.Get("/opportunities/all", b.allOpportunities)
	api.Get("/opportunities/stats", b.opportunityStats)
	api.Get("/opportunities/saved", b.requireAuth, b.savedOpportunities)
	api.Post("/opportunities/save/:id", b.requireAuth, b.saveOpportunity)
	api.Delete("/opportunities/unsave/:id", b.requireAuth, b.unsaveOpportunity)

	api.Post("/resources/search", b.searchResources)
	api.Get("/resources/all", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "resources": b.resources})
	})
}

func (b *Backend) login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.emails[strings.ToLower(req.Email)]
	if !ok || bcrypt.CompareHashAndPassword(b.users[id].passwordHash, []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid email or password"})
	}
	u := b.users[id]
	return c.JSON(fiber.Map{
		"success":       true,
		"session_token": b.issueLocked(id),
		"user_id":       id,
		"name":          u.profile.Name,
	})
}

func (b *Backend) signup(c *fiber.Ctx) error {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Degree     string `json:"degree"`
		CareerGoal string `json:"career_goal"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	email := strings.ToLower(req.Email)
	if _, exists := b.emails[email]; exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Email already registered"})
	}
	id := b.nextUserID
	b.nextUserID++
	b.users[id] = &fakeUser{
		passwordHash: mustHash(req.Password),
		profile: WireProfile{
			UserID: id, Name: req.Name, Email: email,
			Degree: req.Degree, CareerGoal: req.CareerGoal,
			Skills: []WireUserSkill{},
		},
		saved: make(map[int64]bool),
	}
	b.emails[email] = id
	return c.JSON(fiber.Map{
		"success":       true,
		"session_token": b.issueLocked(id),
		"user_id":       id,
		"name":          req.Name,
	})
}

func (b *Backend) logout(c *fiber.Ctx) error {
	token := fiberutils.CopyString(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
	b.mu.Lock()
	b.revoked[token] = true
	b.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

func (b *Backend) profile(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "profile": b.users[currentUser(c)].profile})
}

func (b *Backend) updateProfile(c *fiber.Ctx) error {
	var req struct {
		Degree     *string `json:"degree"`
		CareerGoal *string `json:"career_goal"`
		Skills     *[]struct {
			SkillID     int64 `json:"skill_id"`
			Proficiency int   `json:"proficiency"`
		} `json:"skills"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[currentUser(c)]
	if req.Degree != nil {
		u.profile.Degree = *req.Degree
	}
	if req.CareerGoal != nil {
		u.profile.CareerGoal = *req.CareerGoal
	}
	if req.Skills != nil {
		skills := make([]WireUserSkill, 0, len(*req.Skills))
		for _, s := range *req.Skills {
			name := ""
			for _, known := range b.skills {
				if known.SkillID == s.SkillID {
					name = known.SkillName
				}
			}
			if name == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": fmt.Sprintf("Unknown skill %d", s.SkillID)})
			}
			skills = append(skills, WireUserSkill{SkillID: s.SkillID, SkillName: name, Proficiency: s.Proficiency})
		}
		u.profile.Skills = skills
	}
	return c.JSON(fiber.Map{"success": true, "profile": u.profile})
}

func (b *Backend) uploadResume(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "No file uploaded"})
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Only PDF files are allowed"})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id := currentUser(c)
	url := fmt.Sprintf("https://files.careerhub.test/resumes/%d/%s", id, filepath.Base(fh.Filename))
	b.users[id].profile.ResumeURL = &url
	return c.JSON(fiber.Map{"success": true, "resume_url": url, "size": fh.Size})
}

func (b *Backend) userStats(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[currentUser(c)]
	return c.JSON(fiber.Map{"success": true, "stats": fiber.Map{
		"skills_count":        len(u.profile.Skills),
		"saved_opportunities": len(u.saved),
		"completed_courses":   0,
	}})
}

func (b *Backend) careerPath(c *fiber.Ctx) error {
	var req struct {
		UserID int64 `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if req.UserID != currentUser(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "Cannot request career paths for another user"})
	}
	return c.JSON(fiber.Map{"success": true, "career_paths": []fiber.Map{
		{
			"title":          "Backend Engineer",
			"fit_reason":     "Strong Python and SQL foundation",
			"missing_skills": []string{"Go", "Docker"},
			"roadmap":        []string{"Learn Go", "Build a REST API", "Containerise it"},
		},
		{
			"title":          "Data Engineer",
			"fit_reason":     "SQL proficiency transfers directly",
			"missing_skills": []string{"Spark"},
			"roadmap":        []string{"Learn Spark", "Build a pipeline"},
		},
	}})
}

func (b *Backend) coachChat(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Message is required"})
	}

	b.mu.Lock()
	b.chatLog = append(b.chatLog, req.Message)
	reply := b.coach
	b.mu.Unlock()

	response, suggestions, ok := reply(req.Message)
	if !ok {
		return c.JSON(fiber.Map{"success": false, "detail": "Coach is unavailable"})
	}
	return c.JSON(fiber.Map{"success": true, "response": response, "suggestions": suggestions})
}

func (b *Backend) coachPlan(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[currentUser(c)]
	current := make([]string, 0, len(u.profile.Skills))
	for _, s := range u.profile.Skills {
		current = append(current, s.SkillName)
	}
	return c.JSON(fiber.Map{"success": true, "plan": fiber.Map{
		"current_skills":     current,
		"recommended_skills": []string{"Go", "Docker"},
		"learning_resources": []fiber.Map{
			{"title": "Go by Example", "url": "https://learn.example.com/go"},
			{"title": "Intro to Docker", "url": "https://learn.example.com/docker"},
		},
		"next_steps": []string{"Finish Go by Example", "Containerise a side project"},
	}})
}

func (b *Backend) allOpportunities(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "opportunities": b.opportunities, "total": len(b.opportunities)})
}

func (b *Backend) opportunityStats(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bySource := make(map[string]int)
	for _, o := range b.opportunities {
		bySource[o.Source]++
	}
	return c.JSON(fiber.Map{"success": true, "stats": fiber.Map{"total": len(b.opportunities), "by_source": bySource}})
}

func (b *Backend) savedOpportunities(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[currentUser(c)]
	saved := make([]WireOpportunity, 0, len(u.saved))
	for _, o := range b.opportunities {
		if u.saved[o.OpportunityID] {
			saved = append(saved, o)
		}
	}
	return c.JSON(fiber.Map{"success": true, "opportunities": saved})
}

func (b *Backend) findOpportunity(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, false
	}
	for _, o := range b.opportunities {
		if o.OpportunityID == int64(id) {
			return int64(id), true
		}
	}
	return 0, false
}

func (b *Backend) saveOpportunity(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.findOpportunity(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Opportunity not found"})
	}
	b.users[currentUser(c)].saved[id] = true
	return c.JSON(fiber.Map{"success": true, "message": "Opportunity saved", "opportunity_id": id})
}

func (b *Backend) unsaveOpportunity(c *fiber.Ctx) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.findOpportunity(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Opportunity not found"})
	}
	delete(b.users[currentUser(c)].saved, id)
	return c.JSON(fiber.Map{"success": true, "message": "Opportunity removed", "opportunity_id": id})
}

// searchResources matches any query word against title and description and
// answers in catalog order.
func (b *Backend) searchResources(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": []fiber.Map{{"msg": "query must not be empty"}}})
	}

	words := strings.Fields(strings.ToLower(req.Query))
	matches := make([]WireResource, 0)
	for _, r := range b.resources {
		text := strings.ToLower(r.Title + " " + r.Description)
		for _, w := range words {
			if len(w) > 1 && strings.Contains(text, w) {
				matches = append(matches, r)
				break
			}
		}
	}
	return c.JSON(fiber.Map{"success": true, "resources": matches, "total": len(matches), "query": req.Query})
}
