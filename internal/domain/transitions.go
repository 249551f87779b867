package domain

// Trigger is an event that may move the session between states.
type Trigger string

const (
	TriggerSelect Trigger = "select" // pick a recipe
	TriggerStart  Trigger = "start"  // begin cooking
	TriggerPause  Trigger = "pause"
	TriggerResume Trigger = "resume"
	TriggerFinish Trigger = "finish" // tick: elapsed past duration
	TriggerBurn   Trigger = "burn"   // tick: grace exceeded or mistakes
	TriggerServe  Trigger = "serve"
	TriggerCancel Trigger = "cancel"
	TriggerReset  Trigger = "reset" // canceled drains back to idle
)

// Transition is a single allowed edge in the session state machine.
type Transition struct {
	From    SessionState
	To      SessionState
	Trigger Trigger
}

// transitions lists every legal edge. Anything not present is rejected
// as a silent no-op; self-transitions are always tolerated.
var transitions = []Transition{
	{From: StateIdle, To: StatePrepping, Trigger: TriggerSelect},
	{From: StatePrepping, To: StateCooking, Trigger: TriggerStart},

	{From: StateCooking, To: StatePaused, Trigger: TriggerPause},
	{From: StatePaused, To: StateCooking, Trigger: TriggerResume},

	{From: StateCooking, To: StateDone, Trigger: TriggerFinish},
	{From: StateCooking, To: StateBurned, Trigger: TriggerBurn},
	{From: StateDone, To: StateBurned, Trigger: TriggerBurn},

	{From: StateDone, To: StateIdle, Trigger: TriggerServe},

	{From: StateCooking, To: StateCanceled, Trigger: TriggerCancel},
	{From: StatePaused, To: StateCanceled, Trigger: TriggerCancel},
	{From: StateBurned, To: StateCanceled, Trigger: TriggerCancel},

	{From: StateCanceled, To: StateIdle, Trigger: TriggerReset},
}

// TransitionFor returns the edge a trigger takes from the given state,
// if one exists.
func TransitionFor(from SessionState, trigger Trigger) (Transition, bool) {
	for _, tr := range transitions {
		if tr.From == from && tr.Trigger == trigger {
			return tr, true
		}
	}
	return Transition{}, false
}

// CanTrigger reports whether the trigger is legal in the given state.
func CanTrigger(from SessionState, trigger Trigger) bool {
	_, ok := TransitionFor(from, trigger)
	return ok
}
