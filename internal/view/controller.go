// Package view owns the calendar's view state (mode + reference date) and
// the navigation rules between states.
package view

import (
	"sync"
	"time"

	"studycal/internal/grid"
	"studycal/internal/model"
)

// State is a read-only copy of the controller's view state.
type State struct {
	Mode      model.ViewMode `json:"mode"`
	Reference time.Time      `json:"reference"`
	WeekStart time.Weekday   `json:"weekStart"`
}

// Controller holds the current view mode and reference date. Mode changes
// only through SetMode; the reference date only through navigation (Prev, Next, Today, GoTo).
type Controller struct {
	mu        sync.RWMutex
	mode      model.ViewMode
	ref       time.Time
	weekStart time.Weekday
	loc       *time.Location
	grids     *grid.Cache
	now       func() time.Time
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock overrides time.Now, used by Today and New.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithGridCache memoises grids through cache.
func WithGridCache(cache *grid.Cache) Option {
	return func(c *Controller) { c.grids = cache }
}

// New starts in month mode on today's date in loc.
func New(loc *time.Location, weekStart time.Weekday, opts ...Option) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	c := &Controller{
		mode:      model.ViewMonth,
		weekStart: weekStart,
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ref = grid.Midnight(c.now().In(loc))
	return c
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{Mode: c.mode, Reference: c.ref, WeekStart: c.weekStart}
}

// SetMode switches the view. The reference date is kept.
func (c *Controller) SetMode(mode model.ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// GoTo navigates directly to the day containing t.
func (c *Controller) GoTo(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ref = grid.Midnight(t.In(c.loc))
}

// Prev moves back one month, week or day depending on the mode.
func (c *Controller) Prev() { c.step(-1) }

// Next moves forward one month, week or day depending on the mode.
func (c *Controller) Next() { c.step(1) }

// Today resets the reference date to the current day.
func (c *Controller) Today() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ref = grid.Midnight(c.now().In(c.loc))
}

// Grid renders the current state.
func (c *Controller) Grid() grid.Grid {
	st := c.State()
	return c.grids.Build(st.Reference, st.Mode, st.WeekStart)
}

func (c *Controller) step(dir int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case model.ViewMonth:
		// Anchor on the 1st so Jan 31 + 1 month is February, not March.
		y, m, _ := c.ref.Date()
		c.ref = time.Date(y, m+time.Month(dir), 1, 0, 0, 0, 0, c.loc)
	case model.ViewWeek:
		c.ref = c.ref.AddDate(0, 0, 7*dir)
	case model.ViewDay:
		c.ref = c.ref.AddDate(0, 0, dir)
	}
}
