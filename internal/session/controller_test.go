package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/hearthcook/internal/clock"
	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/inventory"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// stubRecipes is a fixed recipe source for tests.
type stubRecipes struct {
	recipes map[string]*domain.Recipe
}

func (s stubRecipes) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	return nil, nil
}

func (s stubRecipes) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r, ok := s.recipes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// recordingNotifier collects emitted messages.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (n *recordingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

func (n *recordingNotifier) NotifyUrgent(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urgent = append(n.urgent, msg)
	return nil
}

// stewRecipe is the standard fixture: 10s cook, 5s grace, three slots,
// no stirring unless a test opts in.
func stewRecipe(stirEvery time.Duration) *domain.Recipe {
	return &domain.Recipe{
		ID:          "test-stew",
		Name:        "Test Stew",
		Stations:    []domain.StationID{domain.StationStove},
		Duration:    10 * time.Second,
		BurnGrace:   5 * time.Second,
		Ingredients: []string{"meat", "vegetable", "herb"},
		StirEvery:   stirEvery,
	}
}

type fixture struct {
	ctl      *Controller
	clk      *clock.Fake
	items    *inventory.MemoryStore
	notifier *recordingNotifier
	ctx      context.Context
}

func setup(t *testing.T, recipe *domain.Recipe) *fixture {
	t.Helper()

	log := logger.New(logger.LevelOff, nil)
	clk := clock.NewFake(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))
	items := inventory.NewMemoryStore(log)
	ctx := context.Background()

	items.Append(ctx, domain.Item{ID: "m1", Name: "Venison Cut", Category: "meat", Rarity: "common", Qty: 2})
	items.Append(ctx, domain.Item{ID: "v1", Name: "Wild Carrot", Category: "vegetable", Rarity: "common", Qty: 3})
	items.Append(ctx, domain.Item{ID: "h1", Name: "Creek Thyme", Category: "herb", Rarity: "uncommon", Qty: 1})

	notifier := &recordingNotifier{}
	ctl := New(
		stubRecipes{recipes: map[string]*domain.Recipe{recipe.ID: recipe}},
		inventory.NewReservation(items, log),
		notifier,
		log,
		WithClock(clk),
	)

	return &fixture{ctl: ctl, clk: clk, items: items, notifier: notifier, ctx: ctx}
}

// prep selects the stew and fills all three slots.
func (f *fixture) prep(t *testing.T) {
	t.Helper()
	f.ctl.SelectRecipe(f.ctx, "test-stew")
	f.ctl.FillSlot(f.ctx, 0, "m1")
	f.ctl.FillSlot(f.ctx, 1, "v1")
	f.ctl.FillSlot(f.ctx, 2, "h1")
}

func TestSelectRecipeLaysOutSlots(t *testing.T) {
	f := setup(t, stewRecipe(0))

	sess := f.ctl.SelectRecipe(f.ctx, "test-stew")

	require.Equal(t, domain.StatePrepping, sess.State)
	require.Len(t, sess.Slots, 3)
	assert.Equal(t, "meat", sess.Slots[0].Tag)
	assert.Equal(t, "vegetable", sess.Slots[1].Tag)
	assert.Equal(t, "herb", sess.Slots[2].Tag)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.HeatMed, sess.Heat)
}

func TestSelectUnknownRecipeIsNoOp(t *testing.T) {
	f := setup(t, stewRecipe(0))

	sess := f.ctl.SelectRecipe(f.ctx, "no-such-dish")

	assert.Equal(t, domain.StateIdle, sess.State)
}

func TestStartRequiresAllSlots(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.ctl.SelectRecipe(f.ctx, "test-stew")
	f.ctl.FillSlot(f.ctx, 0, "m1")

	sess := f.ctl.Start(f.ctx)

	require.Equal(t, domain.StatePrepping, sess.State, "start with unfilled slots must not change state")
	assert.Empty(t, sess.Reserved)
	assert.Contains(t, lastEvent(sess), "Missing ingredients")
}

func TestStartReservesOneUnitPerSlot(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)

	sess := f.ctl.Start(f.ctx)

	require.Equal(t, domain.StateCooking, sess.State)
	require.Len(t, sess.Reserved, 3)

	// Inventory quantities dropped by exactly one each.
	m, _ := f.items.Get(f.ctx, "m1")
	v, _ := f.items.Get(f.ctx, "v1")
	assert.Equal(t, 1, m.Qty)
	assert.Equal(t, 2, v.Qty)
	_, herbLeft := f.items.Get(f.ctx, "h1")
	assert.False(t, herbLeft, "singleton herb stack should be gone")
}

func TestStartWrongStationIsMistakeNotAbort(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.SetStation(f.ctx, domain.StationOven)

	sess := f.ctl.Start(f.ctx)

	require.Equal(t, domain.StateCooking, sess.State)
	assert.Equal(t, 1, sess.Mistakes)
}

func TestStartReservationRaceRollsBack(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)

	// The herb vanishes between binding and start.
	f.items.TakeOne(f.ctx, "h1")

	before := f.items.TotalQty(f.ctx, domain.StackKey{Name: "Venison Cut", Category: "meat", Rarity: "common"})
	sess := f.ctl.Start(f.ctx)

	require.Equal(t, domain.StatePrepping, sess.State)
	assert.Empty(t, sess.Reserved, "no partial reservation may survive an aborted start")

	after := f.items.TotalQty(f.ctx, domain.StackKey{Name: "Venison Cut", Category: "meat", Rarity: "common"})
	assert.Equal(t, before, after, "units reserved in the failed attempt must be released back")
	assert.Contains(t, lastEvent(sess), "Could not reserve")
}

func TestHeatModifiers(t *testing.T) {
	tests := []struct {
		heat      domain.HeatLevel
		wantDur   time.Duration
		wantGrace time.Duration
	}{
		{domain.HeatMed, 10 * time.Second, 5 * time.Second},
		{domain.HeatHigh, 9 * time.Second, 3 * time.Second},
		{domain.HeatLow, 11500 * time.Millisecond, 6 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.heat.String(), func(t *testing.T) {
			f := setup(t, stewRecipe(0))
			f.prep(t)
			f.ctl.SetHeat(f.ctx, tt.heat)

			sess := f.ctl.Start(f.ctx)

			require.Equal(t, domain.StateCooking, sess.State)
			assert.Equal(t, tt.wantDur, sess.EffDuration)
			assert.Equal(t, tt.wantGrace, sess.EffBurnGrace)
		})
	}
}

func TestElapsedAccountsForPause(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.Start(f.ctx)

	// Pause at T0+5s for 3s, then check at T0+20s wall clock.
	f.clk.Advance(5 * time.Second)
	f.ctl.Pause(f.ctx)
	f.clk.Advance(3 * time.Second)
	f.ctl.Resume(f.ctx)
	f.clk.Advance(12 * time.Second)

	sess := f.ctl.Snapshot()
	assert.Equal(t, 17*time.Second, sess.Elapsed(f.clk.Now()))
	assert.Equal(t, 3*time.Second, sess.PausedTotal)
}

func TestTickDoesNothingWhilePaused(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.Start(f.ctx)
	f.ctl.Pause(f.ctx)

	// Hours pass while paused; nothing may burn.
	f.clk.Advance(2 * time.Hour)
	sess := f.ctl.Tick(f.ctx)

	assert.Equal(t, domain.StatePaused, sess.State)
	assert.Zero(t, sess.Mistakes)
}

func TestBurnByTimeBoundaries(t *testing.T) {
	// duration=10s grace=5s at med heat: 14s is done, 16s is burned.
	t.Run("done inside grace", func(t *testing.T) {
		f := setup(t, stewRecipe(0))
		f.prep(t)
		f.ctl.Start(f.ctx)

		f.clk.Advance(14 * time.Second)
		sess := f.ctl.Tick(f.ctx)

		assert.Equal(t, domain.StateDone, sess.State)
	})

	t.Run("burned past grace", func(t *testing.T) {
		f := setup(t, stewRecipe(0))
		f.prep(t)
		f.ctl.Start(f.ctx)

		f.clk.Advance(16 * time.Second)
		sess := f.ctl.Tick(f.ctx)

		assert.Equal(t, domain.StateBurned, sess.State)
		assert.Contains(t, lastEvent(sess), "too long")
	})
}

func TestFinishEmitsOnce(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.Start(f.ctx)

	f.clk.Advance(11 * time.Second)
	f.ctl.Tick(f.ctx)
	f.ctl.Tick(f.ctx)
	f.ctl.Tick(f.ctx)

	fired := 0
	f.notifier.mu.Lock()
	for _, m := range f.notifier.urgent {
		if m == "It's ready — serve it before it burns." {
			fired++
		}
	}
	f.notifier.mu.Unlock()
	assert.Equal(t, 1, fired, "repeated ticks must not re-fire the done transition")
}

func TestMissedStirAccruesOneMistakePerWindow(t *testing.T) {
	f := setup(t, stewRecipe(2*time.Second))
	f.prep(t)
	f.ctl.Start(f.ctx)

	// Blow one window (2s interval + 2s default slack), then tick twice.
	f.clk.Advance(5 * time.Second)
	f.ctl.Tick(f.ctx)
	sess := f.ctl.Tick(f.ctx)

	assert.Equal(t, 1, sess.Mistakes, "neglect accrues per window, not per tick")
}

func TestStirPreventsNeglectMistake(t *testing.T) {
	f := setup(t, stewRecipe(2*time.Second))
	f.prep(t)
	f.ctl.Start(f.ctx)

	for i := 0; i < 4; i++ {
		f.clk.Advance(2 * time.Second)
		f.ctl.Stir(f.ctx)
		f.ctl.Tick(f.ctx)
	}

	sess := f.ctl.Snapshot()
	assert.Zero(t, sess.Mistakes)
	assert.Equal(t, domain.StateCooking, sess.State)
}

func TestBurnByMistakes(t *testing.T) {
	recipe := stewRecipe(2 * time.Second)
	recipe.Duration = time.Minute // keep time-based burn out of the picture
	recipe.BurnGrace = time.Minute
	f := setup(t, recipe)
	f.prep(t)
	f.ctl.Start(f.ctx)

	// Neglect three windows in a row.
	for i := 0; i < 3; i++ {
		f.clk.Advance(5 * time.Second)
		f.ctl.Tick(f.ctx)
	}
	sess := f.ctl.Tick(f.ctx)

	require.Equal(t, 3, sess.Mistakes)
	assert.Equal(t, domain.StateBurned, sess.State)
	assert.Contains(t, lastEvent(sess), "too many mistakes")
}

func TestResumeShiftsStirWindow(t *testing.T) {
	f := setup(t, stewRecipe(4*time.Second))
	f.prep(t)
	f.ctl.Start(f.ctx)

	// A long pause must not count against the stir window.
	f.clk.Advance(2 * time.Second)
	f.ctl.Pause(f.ctx)
	f.clk.Advance(30 * time.Second)
	f.ctl.Resume(f.ctx)
	sess := f.ctl.Tick(f.ctx)

	assert.Zero(t, sess.Mistakes)
	assert.Equal(t, domain.StateCooking, sess.State)
}

func TestCancelRoundTripsInventory(t *testing.T) {
	f := setup(t, stewRecipe(0))
	meatKey := domain.StackKey{Name: "Venison Cut", Category: "meat", Rarity: "common"}
	vegKey := domain.StackKey{Name: "Wild Carrot", Category: "vegetable", Rarity: "common"}
	herbKey := domain.StackKey{Name: "Creek Thyme", Category: "herb", Rarity: "uncommon"}

	beforeMeat := f.items.TotalQty(f.ctx, meatKey)
	beforeVeg := f.items.TotalQty(f.ctx, vegKey)
	beforeHerb := f.items.TotalQty(f.ctx, herbKey)

	f.prep(t)
	f.ctl.Start(f.ctx)
	f.clk.Advance(3 * time.Second)
	sess := f.ctl.Cancel(f.ctx)

	require.Equal(t, domain.StateIdle, sess.State, "cancel drains straight through canceled to idle")
	assert.Empty(t, sess.Reserved)
	assert.Equal(t, beforeMeat, f.items.TotalQty(f.ctx, meatKey))
	assert.Equal(t, beforeVeg, f.items.TotalQty(f.ctx, vegKey))
	assert.Equal(t, beforeHerb, f.items.TotalQty(f.ctx, herbKey))
}

func TestCancelBurnedDiscardsIngredients(t *testing.T) {
	f := setup(t, stewRecipe(0))
	herbKey := domain.StackKey{Name: "Creek Thyme", Category: "herb", Rarity: "uncommon"}

	f.prep(t)
	f.ctl.Start(f.ctx)
	f.clk.Advance(time.Minute)
	require.Equal(t, domain.StateBurned, f.ctl.Tick(f.ctx).State)

	sess := f.ctl.Cancel(f.ctx)

	assert.Equal(t, domain.StateIdle, sess.State)
	assert.Zero(t, f.items.TotalQty(f.ctx, herbKey), "burned ingredients are ruined, not returned")
}

func TestServeOnlyFromDone(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.Start(f.ctx)

	sess, dish := f.ctl.Serve(f.ctx)
	assert.Nil(t, dish, "serving mid-cook must be refused")
	assert.Equal(t, domain.StateCooking, sess.State)
}

func TestServeProducesOneDishAndResets(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.Start(f.ctx)
	f.clk.Advance(11 * time.Second)
	f.ctl.Tick(f.ctx)

	sess, dish := f.ctl.Serve(f.ctx)

	require.NotNil(t, dish)
	assert.Equal(t, domain.QualityPerfect, dish.Quality)
	assert.ElementsMatch(t, []string{"Venison Cut", "Wild Carrot", "Creek Thyme"}, dish.MadeFrom)
	assert.Contains(t, dish.Description, "Venison Cut")

	assert.Equal(t, domain.StateIdle, sess.State)
	assert.Empty(t, sess.Reserved)

	// A second serve yields nothing.
	_, again := f.ctl.Serve(f.ctx)
	assert.Nil(t, again)
}

func TestServeQualityReflectsMistakes(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.SetStation(f.ctx, domain.StationOpenFire) // one mistake at start
	f.ctl.Start(f.ctx)
	f.clk.Advance(11 * time.Second)
	f.ctl.Tick(f.ctx)

	_, dish := f.ctl.Serve(f.ctx)

	require.NotNil(t, dish)
	assert.Equal(t, domain.QualityOK, dish.Quality)
}

func TestIllegalActionsAreIdempotentNoOps(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.prep(t)
	f.ctl.Start(f.ctx)
	f.ctl.Pause(f.ctx)

	before := f.ctl.Snapshot()

	// None of these are legal from paused.
	f.ctl.Pause(f.ctx)
	f.ctl.Start(f.ctx)
	f.ctl.Stir(f.ctx)
	f.ctl.SelectRecipe(f.ctx, "test-stew")
	f.ctl.Reset(f.ctx)
	after, dish := f.ctl.Serve(f.ctx)

	assert.Nil(t, dish)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Mistakes, after.Mistakes)
	assert.Equal(t, before.PausedAt, after.PausedAt)
	assert.Equal(t, before.PausedTotal, after.PausedTotal)
	assert.Equal(t, before.Reserved, after.Reserved)
	assert.Equal(t, before.Events, after.Events)
}

func TestResetClearsPreppingSession(t *testing.T) {
	f := setup(t, stewRecipe(0))
	f.ctl.SelectRecipe(f.ctx, "test-stew")
	f.ctl.FillSlot(f.ctx, 0, "m1")

	sess := f.ctl.Reset(f.ctx)

	assert.Equal(t, domain.StateIdle, sess.State)
	assert.Empty(t, sess.Slots)
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	f := setup(t, stewRecipe(0))

	var calls int
	WithOnChange(func(*domain.Session) { calls++ })(f.ctl)

	f.ctl.SelectRecipe(f.ctx, "test-stew")
	f.ctl.FillSlot(f.ctx, 0, "m1")
	f.ctl.Pause(f.ctx) // illegal, must not fire

	assert.Equal(t, 2, calls)
}

// Full lifecycle per the meat/vegetable/herb scenario.
func TestScenarioSelectFillCookServe(t *testing.T) {
	f := setup(t, stewRecipe(0))

	f.ctl.SelectRecipe(f.ctx, "test-stew")
	f.ctl.SetStation(f.ctx, domain.StationStove)
	f.ctl.FillSlot(f.ctx, 0, "m1")
	f.ctl.FillSlot(f.ctx, 1, "v1")
	f.ctl.FillSlot(f.ctx, 2, "h1")

	sess := f.ctl.Start(f.ctx)
	require.Equal(t, domain.StateCooking, sess.State)

	f.clk.Advance(sess.EffDuration + time.Second)
	sess = f.ctl.Tick(f.ctx)
	require.Equal(t, domain.StateDone, sess.State)

	sess, dish := f.ctl.Serve(f.ctx)
	require.NotNil(t, dish)
	assert.Empty(t, sess.Reserved)
	assert.Equal(t, domain.StateIdle, sess.State)
}

func lastEvent(sess *domain.Session) string {
	if len(sess.Events) == 0 {
		return ""
	}
	return sess.Events[len(sess.Events)-1].Text
}
