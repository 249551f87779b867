package domain

import "time"

// SessionState tracks the lifecycle of the single active cooking session.
type SessionState int

const (
	StateIdle SessionState = iota
	StatePrepping
	StateCooking
	StatePaused
	StateDone
	StateBurned
	StateCanceled
)

// String returns a human-readable session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrepping:
		return "prepping"
	case StateCooking:
		return "cooking"
	case StatePaused:
		return "paused"
	case StateDone:
		return "done"
	case StateBurned:
		return "burned"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Slot is one ingredient requirement position. ItemID is empty until
// the slot is filled.
type Slot struct {
	Tag    string
	ItemID string
}

// Bound reports whether an inventory item has been bound to the slot.
func (s Slot) Bound() bool { return s.ItemID != "" }

// MaxEvents caps the session event log; the oldest entry is dropped
// once the cap is reached.
const MaxEvents = 32

// BurnMistakeThreshold is the mistake count at which a cooking session
// is ruined regardless of elapsed time.
const BurnMistakeThreshold = 3

// Session is the single mutable unit of the engine. It is created on
// recipe selection and drained back to idle on serve or cancel.
type Session struct {
	ID      string
	State   SessionState
	Recipe  string
	Station StationID
	Heat    HeatLevel

	// Slots mirrors the recipe's ingredient tags, in order.
	Slots []Slot
	// Reserved holds the inventory units taken when cooking started.
	// Non-empty only in cooking, paused, done, and burned.
	Reserved []ItemUnit

	StartedAt   time.Time
	PausedAt    time.Time     // zero when not currently paused
	PausedTotal time.Duration // grows only while paused

	EffDuration  time.Duration
	EffBurnGrace time.Duration
	EffStirEvery time.Duration
	LastStirAt   time.Time

	// Mistakes never decreases within a session.
	Mistakes int

	Events []EventEntry
}

// Elapsed returns cook progress at the given instant: wall time since
// start minus cumulative pause time, clamped to zero. This is the only
// clock the engine keeps.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	paused := s.PausedTotal
	if !s.PausedAt.IsZero() {
		paused += now.Sub(s.PausedAt)
	}
	e := now.Sub(s.StartedAt) - paused
	if e < 0 {
		return 0
	}
	return e
}

// AllSlotsBound reports whether every ingredient slot has been filled.
func (s *Session) AllSlotsBound() bool {
	for _, slot := range s.Slots {
		if !slot.Bound() {
			return false
		}
	}
	return len(s.Slots) > 0
}

// LogEvent appends a human-readable entry to the bounded event log.
func (s *Session) LogEvent(at time.Time, text string) {
	s.Events = append(s.Events, EventEntry{At: at, Text: text})
	if len(s.Events) > MaxEvents {
		s.Events = s.Events[len(s.Events)-MaxEvents:]
	}
}

// Clone returns a deep copy of the session, safe to hand outside the
// controller's lock.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Slots = append([]Slot(nil), s.Slots...)
	out.Reserved = append([]ItemUnit(nil), s.Reserved...)
	out.Events = append([]EventEntry(nil), s.Events...)
	return &out
}

// Quality grades the dish produced by a session.
type Quality int

const (
	QualityPerfect Quality = iota
	QualityOK
	QualityRough
	QualityRuined
)

// String returns a human-readable quality tier.
func (q Quality) String() string {
	switch q {
	case QualityPerfect:
		return "perfect"
	case QualityOK:
		return "ok"
	case QualityRough:
		return "rough"
	case QualityRuined:
		return "ruined"
	default:
		return "unknown"
	}
}

// QualityFor maps an accumulated mistake count to a quality tier.
func QualityFor(mistakes int) Quality {
	switch {
	case mistakes == 0:
		return QualityPerfect
	case mistakes == 1:
		return QualityOK
	default:
		return QualityRough
	}
}

// Dish is the artifact produced by serving a finished session.
type Dish struct {
	Name        string
	Description string
	Quality     Quality
	// Potency and EffectFor are the status-effect magnitude and duration
	// granted when the dish is eaten, chosen by quality tier.
	Potency   int
	EffectFor time.Duration
	MadeFrom  []string
	ServedAt  time.Time
}
