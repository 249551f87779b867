package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/domain"
)

// Tick runs one evaluation cycle against the injected clock. Outside
// cooking and done it does nothing; otherwise it derives the finish,
// burn, and missed-stir consequences of elapsed time. Re-running a
// tick against unchanged state takes no transition twice; every edge
// is guarded by the legality table.
func (c *Controller) Tick(ctx context.Context) *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.State != domain.StateCooking && c.sess.State != domain.StateDone {
		return c.sess.Clone()
	}

	now := c.clk.Now()
	elapsed := c.sess.Elapsed(now)
	changed := false

	// Finish: cooking past the effective duration.
	if c.sess.State == domain.StateCooking && elapsed >= c.sess.EffDuration {
		if domain.CanTrigger(c.sess.State, domain.TriggerFinish) {
			c.sess.State = domain.StateDone
			c.sess.LogEvent(now, "Done. Serve it while it's hot.")
			c.emitUrgent(ctx, "It's ready — serve it before it burns.")
			c.log.Info("session %s done at elapsed=%s", shortID(c.sess.ID), elapsed.Round(time.Millisecond))
			changed = true
		}
	}

	// Burn: grace blown past, or too many mistakes. Both roads lead to
	// the same state; the log tells them apart.
	if c.sess.State == domain.StateCooking || c.sess.State == domain.StateDone {
		overcooked := elapsed >= c.sess.EffDuration+c.sess.EffBurnGrace
		sloppy := c.sess.Mistakes >= domain.BurnMistakeThreshold
		if (overcooked || sloppy) && domain.CanTrigger(c.sess.State, domain.TriggerBurn) {
			c.sess.State = domain.StateBurned
			if overcooked {
				c.sess.LogEvent(now, "Burned — left on the heat too long.")
				c.emitUrgent(ctx, "It's burned. You left it too long.")
			} else {
				c.sess.LogEvent(now, "Burned — too many mistakes.")
				c.emitUrgent(ctx, "It's ruined. Too much went wrong.")
			}
			c.log.Info("session %s burned (overcooked=%v mistakes=%d)", shortID(c.sess.ID), overcooked, c.sess.Mistakes)
			changed = true
		}
	}

	// Stir neglect, only while still cooking. One mistake per blown
	// window, not one per tick: the window restarts when the mistake
	// lands.
	if c.sess.State == domain.StateCooking && c.sess.EffStirEvery > 0 {
		if now.Sub(c.sess.LastStirAt) > c.sess.EffStirEvery+c.stirSlack {
			c.sess.Mistakes++
			c.sess.LastStirAt = now
			c.sess.LogEvent(now, fmt.Sprintf("Forgot to stir (mistake %d).", c.sess.Mistakes))
			c.emit(ctx, "It needed a stir. That'll cost you.")
			changed = true
		}
	}

	if !changed {
		return c.sess.Clone()
	}
	return c.finish()
}
