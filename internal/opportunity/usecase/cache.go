package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"careerhub-client/internal/opportunity/domain/model"
	"careerhub-client/internal/opportunity/domain/repository"
	sessionrepo "careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"
)

const componentName = "opportunity"

var (
	// ErrStale is returned by a load that was superseded before its response arrived.
	ErrStale = errors.New("opportunity load superseded")
	// ErrNotLoaded is returned when filtering before a listing is loaded.
	ErrNotLoaded = errors.New("opportunities not loaded")
)

// State of the cache.
type State string

const (
	StateEmpty    State = "empty"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateFiltered State = "filtered"
	StateError    State = "error"
)

// ExprCompiler compiles a filter expression into a predicate.
type ExprCompiler interface {
	Compile(expr string) (model.Predicate, error)
}

// Snapshot is a consistent copy of the cache.
type Snapshot struct {
	State   State
	Tab     model.Tab
	All     []model.Opportunity
	Visible []model.Opportunity
	Filter  model.Filter
	Saved   model.SavedSet
	Err     error
}

// Cache holds the listing fetched for one view, the active filter and the
// user's saved set.
type Cache struct {
	repo     repository.OpportunityRepository
	sessions sessionrepo.SessionStore
	compiler ExprCompiler
	events   eventbus.Publisher
	log      logger.Logger

	mu       sync.RWMutex
	state    State
	tab      model.Tab
	original []model.Opportunity
	visible  []model.Opportunity
	filter   model.Filter
	saved    model.SavedSet
	err      error
	seq      uint64

	// toggleMu serializes save/unsave round trips so rollbacks never cross.
	toggleMu sync.Mutex
}

// NewCache creates an empty cache. compiler may be nil, in which case
// expression filters are rejected.
func NewCache(repo repository.OpportunityRepository, sessions sessionrepo.SessionStore, compiler ExprCompiler, events eventbus.Publisher, log logger.Logger) *Cache {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cache{
		repo:     repo,
		sessions: sessions,
		compiler: compiler,
		events:   events,
		log:      log.WithComponent(componentName),
		state:    StateEmpty,
		tab:      model.TabAll,
		saved:    model.NewSavedSet(),
	}
}

// Subscribe drops the saved set whenever the session ends. Loads and toggles
// still in flight can no longer write to it.
func (c *Cache) Subscribe(bus eventbus.EventBusInterface) {
	forget := func(ctx context.Context, _ eventbus.Event) error {
		c.mu.Lock()
		c.seq++
		c.saved = model.NewSavedSet()
		c.mu.Unlock()
		return nil
	}
	bus.Subscribe(eventbus.EventTypeSessionCleared, forget)
	bus.Subscribe(eventbus.EventTypeSessionUnauthorized, forget)
}

// Load fetches the listing for tab and replaces the cache with it. Any active
// filter is dropped. A load overtaken by a later Load or Reset returns ErrStale
// and leaves the cache untouched.
func (c *Cache) Load(ctx context.Context, tab model.Tab) ([]model.Opportunity, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = StateLoading
	c.tab = tab
	c.err = nil
	c.mu.Unlock()

	list, saved, err := c.fetch(ctx, tab)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != seq {
		c.log.WithContext(ctx).Debugf("discarding superseded %s load", tab)
		return nil, ErrStale
	}
	if err != nil {
		c.state = StateError
		c.err = err
		return nil, err
	}
	c.original = list
	c.visible = cloneList(list)
	c.filter = model.Filter{}
	c.saved = saved.RestrictTo(list)
	c.state = StateLoaded
	c.log.WithContext(ctx).Debugf("loaded %d opportunities (%s)", len(list), tab)
	return cloneList(list), nil
}

func (c *Cache) fetch(ctx context.Context, tab model.Tab) ([]model.Opportunity, model.SavedSet, error) {
	if tab == model.TabSaved {
		list, err := c.repo.Saved(ctx)
		if err != nil {
			return nil, nil, err
		}
		saved := model.NewSavedSet()
		for _, o := range list {
			saved.Add(o.ID)
		}
		return list, saved, nil
	}

	list, err := c.repo.All(ctx)
	if err != nil {
		return nil, nil, err
	}
	saved := model.NewSavedSet()
	if c.sessions == nil || !c.sessions.IsActive(ctx) {
		return list, saved, nil
	}
	bookmarks, err := c.repo.Saved(ctx)
	switch {
	case apperrors.IsUnauthorized(err):
		return nil, nil, err
	case err != nil:
		// The listing is still useful without bookmark markers.
		c.log.WithContext(ctx).Warnf("failed to load saved opportunities: %v", err)
	default:
		for _, o := range bookmarks {
			saved.Add(o.ID)
		}
	}
	return list, saved, nil
}

// ApplyFilter narrows the originally loaded list to the opportunities matching
// f. It never re-fetches and always starts from the full list, so successive
// filters do not compound. An empty filter is ClearFilter.
func (c *Cache) ApplyFilter(f model.Filter) ([]model.Opportunity, error) {
	if f.IsEmpty() {
		return c.ClearFilter()
	}

	var extra []model.Predicate
	if f.Expr != "" {
		if c.compiler == nil {
			return nil, apperrors.NewValidationError("Expression filters are not available").WithComponent(componentName)
		}
		pred, err := c.compiler.Compile(f.Expr)
		if err != nil {
			return nil, err
		}
		extra = append(extra, pred)
	}

	c.mu.RLock()
	state, seq, original := c.state, c.seq, c.original
	c.mu.RUnlock()
	if state != StateLoaded && state != StateFiltered {
		return nil, ErrNotLoaded
	}

	filtered, err := model.Apply(original, f, extra...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != seq {
		return nil, ErrStale
	}
	c.visible = filtered
	c.filter = f
	c.state = StateFiltered
	return cloneList(filtered), nil
}

// ClearFilter restores the loaded list in its original order. Calling it
// repeatedly has no further effect.
func (c *Cache) ClearFilter() ([]model.Opportunity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLoaded && c.state != StateFiltered {
		return nil, ErrNotLoaded
	}
	c.visible = cloneList(c.original)
	c.filter = model.Filter{}
	c.state = StateLoaded
	return cloneList(c.original), nil
}

// ToggleSave flips the saved state of id, applying it locally before the
// server confirms. On failure the previous state is restored and the error
// returned. It reports the state in effect afterwards.
func (c *Cache) ToggleSave(ctx context.Context, id int64) (bool, error) {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	c.mu.RLock()
	want := !c.saved.Contains(id)
	c.mu.RUnlock()
	return c.setSavedLocked(ctx, id, want)
}

// SetSaved makes id saved or unsaved, with the same optimistic update and
// rollback as ToggleSave. The server is asked even when the local state
// already agrees.
func (c *Cache) SetSaved(ctx context.Context, id int64, saved bool) (bool, error) {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()
	return c.setSavedLocked(ctx, id, saved)
}

func (c *Cache) setSavedLocked(ctx context.Context, id int64, want bool) (bool, error) {
	c.mu.Lock()
	if !c.knowsLocked(id) {
		c.mu.Unlock()
		return false, apperrors.NewValidationError("Opportunity not found").WithComponent(componentName).WithDetail("opportunity_id", id)
	}
	prior := c.saved.Contains(id)
	seq := c.seq
	c.saved.Set(id, want)
	c.mu.Unlock()

	var err error
	if want {
		err = c.repo.Save(ctx, id)
	} else {
		err = c.repo.Unsave(ctx, id)
	}

	if err != nil {
		c.mu.Lock()
		// A reload or session end has already replaced the set.
		if c.seq == seq {
			c.saved.Set(id, prior)
		}
		c.mu.Unlock()
		c.log.WithContext(ctx).Warnf("save toggle for %d rolled back: %v", id, err)
		return prior, err
	}

	eventType := eventbus.EventTypeOpportunityUnsaved
	if want {
		eventType = eventbus.EventTypeOpportunitySaved
	}
	c.publish(ctx, eventType, id)
	return want, nil
}

func (c *Cache) knowsLocked(id int64) bool {
	for _, o := range c.original {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (c *Cache) publish(ctx context.Context, eventType string, id int64) {
	if c.events == nil {
		return
	}
	event := eventbus.NewEvent(eventType, eventbus.OpportunityPayload{OpportunityID: strconv.FormatInt(id, 10)}, componentName)
	if err := c.events.Publish(ctx, event); err != nil {
		c.log.WithContext(ctx).Errorf("failed to publish %s: %v", eventType, err)
	}
}

// IsSaved reports whether id is in the local saved set.
func (c *Cache) IsSaved(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saved.Contains(id)
}

// Snapshot returns a copy of the cache's current state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		State:   c.state,
		Tab:     c.tab,
		All:     cloneList(c.original),
		Visible: cloneList(c.visible),
		Filter:  c.filter,
		Saved:   c.saved.Clone(),
		Err:     c.err,
	}
}

// Reset empties the cache and invalidates loads in flight.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = StateEmpty
	c.original = nil
	c.visible = nil
	c.filter = model.Filter{}
	c.saved = model.NewSavedSet()
	c.err = nil
}

// SavedCount asks the server how many opportunities the user has saved.
func (c *Cache) SavedCount(ctx context.Context) (int, error) {
	return c.repo.SavedCount(ctx)
}

// TotalCount asks the server how many opportunities are listed.
func (c *Cache) TotalCount(ctx context.Context) (int, error) {
	stats, err := c.repo.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Total, nil
}

// Stats returns the server's listing summary.
func (c *Cache) Stats(ctx context.Context) (*model.Stats, error) {
	return c.repo.Stats(ctx)
}

func cloneList(list []model.Opportunity) []model.Opportunity {
	if list == nil {
		return nil
	}
	out := make([]model.Opportunity, len(list))
	copy(out, list)
	return out
}
