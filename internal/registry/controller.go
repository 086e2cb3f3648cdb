package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/torrejon/vecinored/internal/domain/neighbor"
)

// Repository is the record persistence contract the controller depends on.
type Repository interface {
	ListAll(ctx context.Context) ([]neighbor.Neighbor, error)
	Create(ctx context.Context, draft neighbor.Draft) (*neighbor.Neighbor, error)
	Update(ctx context.Context, n neighbor.Neighbor) (*neighbor.Neighbor, error)
	UpdateStatus(ctx context.Context, id string, status neighbor.Status) (*neighbor.Neighbor, error)
	Delete(ctx context.Context, id string) error
}

// PlanGenerator produces the welcome integration plan for a new neighbor.
type PlanGenerator interface {
	GenerateWelcomePlan(ctx context.Context, name, address string) ([]string, error)
}

// Recorder observes action outcomes.
type Recorder interface {
	ActionCompleted(action string, err error)
	PlanGenerated(d time.Duration, err error)
}

// LogoutIndicator reports whether a logout confirmation is pending.
type LogoutIndicator interface {
	LogoutPending() bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder reports action outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogoutIndicator exposes the session's logout flag in snapshots.
func WithLogoutIndicator(l LogoutIndicator) Option {
	return func(c *Controller) { c.logout = l }
}

// Controller owns the in-memory neighbor collection and all transient view
// state. It is the only caller of the repository and the plan generator.
//
// The mutex guards state only and is never held across an external call,
// so overlapping actions are not serialized against each other.
type Controller struct {
	repo     Repository
	plans    PlanGenerator
	logger   *slog.Logger
	recorder Recorder
	logout   LogoutIndicator

	mu         sync.Mutex
	neighbors  []neighbor.Neighbor
	loading    bool
	errMsg     string
	formOpen   bool
	editing    *neighbor.Neighbor
	selectedID string
	mode       ViewMode
}

// NewController creates a controller in board mode with an empty collection.
func NewController(repo Repository, plans PlanGenerator, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		repo:   repo,
		plans:  plans,
		logger: logger,
		mode:   ModeBoard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the collection with the repository's full listing.
func (c *Controller) Load(ctx context.Context) (err error) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
		c.complete(ActionLoad, err)
	}()

	list, err := c.repo.ListAll(ctx)
	if err != nil {
		return c.fail(ActionLoad, err)
	}

	c.mu.Lock()
	c.neighbors = append([]neighbor.Neighbor(nil), list...)
	c.errMsg = ""
	c.mu.Unlock()
	return nil
}

// OpenCreateForm opens the form with no editing target.
func (c *Controller) OpenCreateForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.formOpen = true
}

// OpenEditForm opens the form for the neighbor with id. It reports false
// and leaves state untouched when the id is not in the collection.
func (c *Controller) OpenEditForm(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	target := c.neighbors[i]
	c.editing = &target
	c.formOpen = true
	return true
}

// CancelForm closes the form and clears the editing target.
func (c *Controller) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formOpen = false
	c.editing = nil
}

// Submit saves the form: an update when an editing target is set,
// otherwise a create preceded by welcome plan generation. The form closes
// only when the save succeeds.
func (c *Controller) Submit(ctx context.Context, fields neighbor.Fields) (*neighbor.Neighbor, error) {
	c.mu.Lock()
	var target *neighbor.Neighbor
	if c.editing != nil {
		t := *c.editing
		target = &t
	}
	c.mu.Unlock()

	var saved *neighbor.Neighbor
	var err error
	if target != nil {
		saved, err = c.edit(ctx, *target, fields)
	} else {
		saved, err = c.Create(ctx, fields)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.editing = nil
	c.formOpen = false
	c.mu.Unlock()
	return saved, nil
}

// Create generates a welcome plan and stores a new neighbor, prepending it
// to the collection. Form state is left alone.
func (c *Controller) Create(ctx context.Context, fields neighbor.Fields) (*neighbor.Neighbor, error) {
	created, err := then(
		start[[]string](c.generatePlan(ctx, fields)),
		func(steps []string) (*neighbor.Neighbor, error) {
			return c.repo.Create(ctx, neighbor.Draft{Fields: fields, IntegrationPlan: steps})
		},
	).result()
	if err != nil {
		c.complete(ActionSave, err)
		return nil, c.fail(ActionSave, err)
	}

	c.mu.Lock()
	c.neighbors = append([]neighbor.Neighbor{*created}, c.neighbors...)
	c.mu.Unlock()

	c.complete(ActionSave, nil)
	return created, nil
}

// Edit overwrites the editable fields of the neighbor with id. Form state is
// left alone. An id missing from the collection yields ErrNeighborNotFound.
func (c *Controller) Edit(ctx context.Context, id string, fields neighbor.Fields) (*neighbor.Neighbor, error) {
	target, ok := c.Find(id)
	if !ok {
		return nil, neighbor.ErrNeighborNotFound
	}
	return c.edit(ctx, target, fields)
}

func (c *Controller) edit(ctx context.Context, target neighbor.Neighbor, fields neighbor.Fields) (*neighbor.Neighbor, error) {
	merged := target.WithFields(fields)
	updated, err := c.repo.Update(ctx, merged)
	if err != nil {
		c.complete(ActionSave, err)
		return nil, c.fail(ActionSave, err)
	}

	c.mu.Lock()
	c.replaceLocked(*updated)
	c.mu.Unlock()

	c.complete(ActionSave, nil)
	return updated, nil
}

func (c *Controller) generatePlan(ctx context.Context, fields neighbor.Fields) ([]string, error) {
	began := time.Now()
	steps, err := c.plans.GenerateWelcomePlan(ctx, fields.Name, fields.Address)
	if c.recorder != nil {
		c.recorder.PlanGenerated(time.Since(began), err)
	}
	return steps, err
}

// UpdateStatus moves a neighbor to another category. The collection only
// changes once the repository returns the canonical record.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status neighbor.Status) (*neighbor.Neighbor, error) {
	updated, err := c.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		c.complete(ActionStatus, err)
		return nil, c.fail(ActionStatus, err)
	}

	c.mu.Lock()
	c.replaceLocked(*updated)
	c.mu.Unlock()

	c.complete(ActionStatus, nil)
	return updated, nil
}

// Delete removes a neighbor. Open detail or edit views on the same id are
// left as they are; lookups of the missing id simply yield nothing.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		c.complete(ActionDelete, err)
		return c.fail(ActionDelete, err)
	}

	c.mu.Lock()
	kept := make([]neighbor.Neighbor, 0, len(c.neighbors))
	for _, n := range c.neighbors {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.neighbors = kept
	c.mu.Unlock()

	c.complete(ActionDelete, nil)
	return nil
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// ShowDetails selects the neighbor with id for the detail view.
func (c *Controller) ShowDetails(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) < 0 {
		return false
	}
	c.selectedID = id
	return true
}

// CloseDetails clears the detail selection.
func (c *Controller) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = ""
}

// SetMode switches presentation without refetching.
func (c *Controller) SetMode(mode ViewMode) error {
	if _, err := ParseViewMode(string(mode)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	return nil
}

// Find returns the neighbor with id from the collection.
func (c *Controller) Find(id string) (neighbor.Neighbor, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return neighbor.Neighbor{}, false
	}
	return c.neighbors[i], true
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	vs := ViewState{
		Neighbors: append([]neighbor.Neighbor{}, c.neighbors...),
		Loading:   c.loading,
		Error:     c.errMsg,
		FormOpen:  c.formOpen,
		Mode:      c.mode,
	}
	if c.editing != nil {
		e := *c.editing
		vs.Editing = &e
	}
	if i := c.indexLocked(c.selectedID); i >= 0 {
		sel := c.neighbors[i]
		vs.Selected = &sel
	}
	c.mu.Unlock()

	if c.logout != nil {
		vs.LogoutPending = c.logout.LogoutPending()
	}
	return vs
}

func (c *Controller) fail(action Action, err error) error {
	aerr := newActionError(action, err)
	c.mu.Lock()
	c.errMsg = aerr.Message
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.Error("action failed", "action", action, "error", err)
	}
	return aerr
}

func (c *Controller) complete(action Action, err error) {
	if c.recorder == nil {
		return
	}
	var aerr *ActionError
	if errors.As(err, &aerr) {
		err = aerr.Err
	}
	c.recorder.ActionCompleted(string(action), err)
}

func (c *Controller) replaceLocked(updated neighbor.Neighbor) {
	if i := c.indexLocked(updated.ID); i >= 0 {
		c.neighbors[i] = updated
	}
}

func (c *Controller) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, n := range c.neighbors {
		if n.ID == id {
			return i
		}
	}
	return -1
}
