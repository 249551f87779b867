// Package session implements the timed cooking session state machine:
// one active session, a legality table over its seven states, and the
// tick evaluation that derives finish, burn, and neglect from elapsed
// time.
package session

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/hearthcook/internal/clock"
	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/inventory"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// DefaultStirSlack is the tolerance added to a recipe's stir window
// before a missed stir counts as a mistake. Tunable, not structural.
const DefaultStirSlack = 2 * time.Second

// Option configures the controller.
type Option func(*Controller)

// WithClock injects a clock, usually a fake in tests.
func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) {
		ctl.clk = c
	}
}

// WithStirSlack sets the missed-stir tolerance.
func WithStirSlack(d time.Duration) Option {
	return func(ctl *Controller) {
		ctl.stirSlack = d
	}
}

// WithClassifier injects the black-box ingredient tag classifier.
func WithClassifier(c domain.Classifier) Option {
	return func(ctl *Controller) {
		ctl.classify = c
	}
}

// WithOnChange registers a callback invoked with a snapshot after every
// mutating action. The persistence layer hangs its debounced writer off
// this; the callback must not block.
func WithOnChange(fn func(*domain.Session)) Option {
	return func(ctl *Controller) {
		ctl.onChange = fn
	}
}

// WithRestoredSession seeds the controller with a session loaded from
// the settings store, resuming a previous run.
func WithRestoredSession(s *domain.Session) Option {
	return func(ctl *Controller) {
		if s != nil {
			ctl.sess = s.Clone()
		}
	}
}

// Controller owns the single active session. One mutex serializes user
// actions and ticks; the state machine is the sole contended resource,
// so nothing finer is worth having. Illegal actions are silent no-ops,
// which makes the surface safe to drive from duplicate or stale
// external events.
type Controller struct {
	recipes  domain.RecipeSource
	reserve  *inventory.Reservation
	notifier domain.Notifier
	log      *logger.Logger

	clk       clock.Clock
	classify  domain.Classifier
	stirSlack time.Duration
	onChange  func(*domain.Session)

	mu   sync.Mutex
	sess *domain.Session
}

// New creates a session controller with the given dependencies and
// options. The session starts idle unless restored.
func New(recipes domain.RecipeSource, reserve *inventory.Reservation, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Controller {
	ctl := &Controller{
		recipes:   recipes,
		reserve:   reserve,
		notifier:  notifier,
		log:       log,
		clk:       clock.Real{},
		stirSlack: DefaultStirSlack,
		sess:      &domain.Session{State: domain.StateIdle},
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Now returns the controller's view of the current instant. Render
// layers use it so progress math agrees with the engine's clock.
func (c *Controller) Now() time.Time {
	return c.clk.Now()
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Clone()
}

// SelectRecipe moves an idle session into prepping for the given
// recipe, laying out one empty slot per required ingredient. Unknown
// recipe IDs and non-idle states are no-ops.
func (c *Controller) SelectRecipe(ctx context.Context, recipeID string) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTrigger(c.sess.State, domain.TriggerSelect) {
		c.log.Debug("select %s ignored in state %s", recipeID, c.sess.State)
		return c.sess.Clone()
	}

	recipe, err := c.recipes.Get(ctx, recipeID)
	if err != nil {
		c.log.Debug("select ignored, recipe %s: %v", recipeID, err)
		return c.sess.Clone()
	}

	slots := make([]domain.Slot, len(recipe.Ingredients))
	for i, tag := range recipe.Ingredients {
		slots[i] = domain.Slot{Tag: tag}
	}

	now := c.clk.Now()
	c.sess = &domain.Session{
		ID:      uuid.NewString(),
		State:   domain.StatePrepping,
		Recipe:  recipe.ID,
		Station: firstStation(recipe),
		Heat:    domain.HeatMed,
		Slots:   slots,
	}
	c.sess.LogEvent(now, fmt.Sprintf("Picked %s.", recipe.Name))
	c.emit(ctx, fmt.Sprintf("Prepping %s — %d ingredients needed.", recipe.Name, len(slots)))

	return c.finish()
}

// SetStation points the prepping session at a station. The choice is
// only judged at start: a disallowed station costs a mistake, it never
// blocks.
func (c *Controller) SetStation(ctx context.Context, station domain.StationID) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State != domain.StatePrepping {
		c.log.Debug("set-station ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	c.sess.Station = station
	c.sess.LogEvent(c.clk.Now(), fmt.Sprintf("Moved to the %s.", station))
	return c.finish()
}

// SetHeat sets the heat level for the prepping session.
func (c *Controller) SetHeat(ctx context.Context, heat domain.HeatLevel) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State != domain.StatePrepping {
		c.log.Debug("set-heat ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	c.sess.Heat = heat
	c.sess.LogEvent(c.clk.Now(), fmt.Sprintf("Heat set to %s.", heat))
	return c.finish()
}

// FillSlot binds an inventory item to an ingredient slot. The item is
// not taken from inventory yet; custody only begins at start. Binding
// checks the tag the same way the candidate list does and logs, but
// does not refuse, a mismatched bind.
func (c *Controller) FillSlot(ctx context.Context, slotIndex int, itemID string) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State != domain.StatePrepping {
		c.log.Debug("fill-slot ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}
	if slotIndex < 0 || slotIndex >= len(c.sess.Slots) {
		c.log.Debug("fill-slot ignored, index %d out of range", slotIndex)
		return c.sess.Clone()
	}

	item, ok := c.reserve.Lookup(ctx, itemID)
	if !ok {
		c.log.Debug("fill-slot ignored, item %s not in inventory", itemID)
		return c.sess.Clone()
	}

	slot := &c.sess.Slots[slotIndex]
	if !inventory.Matches(item, slot.Tag, c.classify) {
		c.log.Warn("binding %s to slot %d despite tag %s mismatch", item.Name, slotIndex, slot.Tag)
	}
	slot.ItemID = itemID
	c.sess.LogEvent(c.clk.Now(), fmt.Sprintf("Slot %d (%s): %s.", slotIndex+1, slot.Tag, item.Name))
	return c.finish()
}

// Start moves a fully-prepped session into cooking: every slot bound,
// one unit reserved per slot, heat modifiers applied, clocks zeroed.
// Missing ingredients and reservation races abort with an event and no
// state change; a wrong station is a mistake, not an abort.
func (c *Controller) Start(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTrigger(c.sess.State, domain.TriggerStart) {
		c.log.Debug("start ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	now := c.clk.Now()

	if !c.sess.AllSlotsBound() {
		c.sess.LogEvent(now, "Missing ingredients — fill every slot first.")
		c.emit(ctx, "Can't start: missing ingredients.")
		return c.finish()
	}

	recipe, err := c.recipes.Get(ctx, c.sess.Recipe)
	if err != nil {
		// Catalog changed under us; treat like a missing ingredient.
		c.sess.LogEvent(now, "Recipe vanished from the book.")
		c.emit(ctx, "Can't start: recipe not found.")
		return c.finish()
	}

	if !recipe.AllowsStation(c.sess.Station) {
		c.sess.Mistakes++
		c.sess.LogEvent(now, fmt.Sprintf("Wrong station: %s doesn't belong on the %s.", recipe.Name, c.sess.Station))
		c.emit(ctx, fmt.Sprintf("That's not going to cook right on the %s.", c.sess.Station))
	}

	units, ok := c.reserve.ReserveAll(ctx, c.sess.Slots)
	if !ok {
		c.sess.LogEvent(now, "Could not reserve ingredients — something was taken.")
		c.emit(ctx, "Can't start: an ingredient is gone.")
		return c.finish()
	}

	durScale, graceScale := c.sess.Heat.Modifiers()
	c.sess.Reserved = units
	c.sess.EffDuration = scale(recipe.Duration, durScale)
	c.sess.EffBurnGrace = scale(recipe.BurnGrace, graceScale)
	c.sess.EffStirEvery = scale(recipe.StirEvery, durScale)
	c.sess.StartedAt = now
	c.sess.PausedAt = time.Time{}
	c.sess.PausedTotal = 0
	c.sess.LastStirAt = now
	c.sess.State = domain.StateCooking

	c.sess.LogEvent(now, fmt.Sprintf("Cooking %s on %s heat.", recipe.Name, c.sess.Heat))
	c.emit(ctx, fmt.Sprintf("%s is on — about %s to go.", recipe.Name, c.sess.EffDuration.Round(time.Second)))
	c.log.Info("session %s cooking %s (duration=%s grace=%s stir=%s)",
		shortID(c.sess.ID), recipe.ID, c.sess.EffDuration, c.sess.EffBurnGrace, c.sess.EffStirEvery)

	return c.finish()
}

// Pause stops the cook clock.
func (c *Controller) Pause(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTrigger(c.sess.State, domain.TriggerPause) {
		c.log.Debug("pause ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	now := c.clk.Now()
	c.sess.PausedAt = now
	c.sess.State = domain.StatePaused
	c.sess.LogEvent(now, "Pulled off the heat.")
	c.emit(ctx, "Paused. Nothing is cooking.")
	return c.finish()
}

// Resume restarts the cook clock, folding the pause into the
// cumulative pause total. The stir window is shifted by the pause
// length so attention is measured in cooking time, not wall time.
func (c *Controller) Resume(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTrigger(c.sess.State, domain.TriggerResume) {
		c.log.Debug("resume ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	now := c.clk.Now()
	pausedFor := now.Sub(c.sess.PausedAt)
	if pausedFor > 0 {
		c.sess.PausedTotal += pausedFor
		if !c.sess.LastStirAt.IsZero() {
			c.sess.LastStirAt = c.sess.LastStirAt.Add(pausedFor)
		}
	}
	c.sess.PausedAt = time.Time{}
	c.sess.State = domain.StateCooking
	c.sess.LogEvent(now, "Back on the heat.")
	c.emit(ctx, "Resumed cooking.")
	return c.finish()
}

// Stir marks the pot attended, resetting the neglect window. Only
// meaningful while cooking; it prevents a missed-stir mistake but adds
// no quality on its own.
func (c *Controller) Stir(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State != domain.StateCooking {
		c.log.Debug("stir ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	now := c.clk.Now()
	c.sess.LastStirAt = now
	c.sess.LogEvent(now, "Gave it a stir.")
	return c.finish()
}

// Cancel aborts the session. Reserved units go back to inventory when
// canceling from cooking or paused; a burned session's units are ruined
// and discarded instead. The session drains straight through canceled
// back to idle.
func (c *Controller) Cancel(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTrigger(c.sess.State, domain.TriggerCancel) {
		c.log.Debug("cancel ignored in state %s", c.sess.State)
		return c.sess.Clone()
	}

	wasBurned := c.sess.State == domain.StateBurned
	if wasBurned {
		c.reserve.Consume(ctx, c.sess.Reserved)
		c.emit(ctx, "Scraped the ruined mess into the fire.")
	} else {
		c.reserve.ReleaseAll(ctx, c.sess.Reserved)
		c.emit(ctx, "Canceled. Ingredients back in the pack.")
	}
	c.sess.Reserved = nil
	c.sess.State = domain.StateCanceled
	c.log.Info("session %s canceled (burned=%v)", shortID(c.sess.ID), wasBurned)

	// canceled -> idle is immediate and automatic.
	c.resetLocked()
	return c.finish()
}

// Serve produces exactly one dish from a done session, consumes the
// reserved units, and returns the session to idle. Returns a nil dish
// when serving is illegal.
func (c *Controller) Serve(ctx context.Context) (*domain.Session, *domain.Dish) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTrigger(c.sess.State, domain.TriggerServe) {
		c.log.Debug("serve ignored in state %s", c.sess.State)
		return c.sess.Clone(), nil
	}

	now := c.clk.Now()
	recipeName := c.sess.Recipe
	if recipe, err := c.recipes.Get(ctx, c.sess.Recipe); err == nil {
		recipeName = recipe.Name
	}

	dish := resolveDish(recipeName, c.sess, now)
	c.reserve.Consume(ctx, c.sess.Reserved)
	c.sess.Reserved = nil

	c.emit(ctx, fmt.Sprintf("Served: %s (%s).", dish.Name, dish.Quality))
	c.log.Info("session %s served %q quality=%s mistakes=%d",
		shortID(c.sess.ID), dish.Name, dish.Quality, c.sess.Mistakes)

	c.resetLocked()
	snap := c.finish()
	return snap, dish
}

// Reset clears a session that holds no inventory custody (idle or
// prepping) back to idle. Sessions holding reserved units must go
// through Cancel or Serve so the units drain first.
func (c *Controller) Reset(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sess.Reserved) > 0 {
		c.log.Debug("reset ignored, session still holds %d reserved units", len(c.sess.Reserved))
		return c.sess.Clone()
	}
	if c.sess.State == domain.StateIdle {
		return c.sess.Clone()
	}

	c.resetLocked()
	c.emit(ctx, "Kitchen cleared.")
	return c.finish()
}

// resetLocked replaces the session with a fresh idle one. Caller holds
// the lock and has already drained Reserved.
func (c *Controller) resetLocked() {
	c.sess = &domain.Session{State: domain.StateIdle}
}

// finish is the tail of every mutating action: hand the change to the
// persistence callback and return a snapshot. Caller holds the lock.
func (c *Controller) finish() *domain.Session {
	snap := c.sess.Clone()
	if c.onChange != nil {
		c.onChange(snap)
	}
	return snap
}

// emit sends a notification, logging and swallowing any sink error.
// Caller holds the lock; the sink must not mutate session state.
func (c *Controller) emit(ctx context.Context, msg string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, msg); err != nil {
		c.log.Error("notify: %v", err)
	}
}

// emitUrgent is emit at the urgent level.
func (c *Controller) emitUrgent(ctx context.Context, msg string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.NotifyUrgent(ctx, msg); err != nil {
		c.log.Error("notify-urgent: %v", err)
	}
}

// scale multiplies a duration by a heat factor, rounded to the nearest
// nanosecond.
func scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(math.Round(float64(d) * factor))
}

// firstStation returns the recipe's preferred station, defaulting to
// the stove for recipes that list none.
func firstStation(r *domain.Recipe) domain.StationID {
	if len(r.Stations) > 0 {
		return r.Stations[0]
	}
	return domain.StationStove
}

// shortID trims a uuid for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
