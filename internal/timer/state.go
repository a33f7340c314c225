// Package timer sequences work and break intervals and emits completed
// sessions into the ledger.
package timer

// Phase is one position in the interval cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseWorking
	PhaseShortBreak
	PhaseLongBreak
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWorking:
		return "working"
	case PhaseShortBreak:
		return "short_break"
	case PhaseLongBreak:
		return "long_break"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is the machine's current phase. ResumesTo carries the suspended
// phase and is only set while paused; states are built through the
// constructors below so "paused while paused" cannot be represented.
type State struct {
	Phase     Phase
	ResumesTo Phase
}

// Idle returns the resting state.
func Idle() State { return State{Phase: PhaseIdle} }

// Active returns a running work or break state.
func Active(phase Phase) State { return State{Phase: phase} }

// Paused suspends an active phase, remembering where to resume.
func Paused(resumesTo Phase) State {
	return State{Phase: PhasePaused, ResumesTo: resumesTo}
}

// IsActive reports whether a countdown is in flight (paused included).
func (s State) IsActive() bool { return s.Phase != PhaseIdle }

// IsBreak reports whether the state is a short or long break.
func (s State) IsBreak() bool {
	return s.Phase == PhaseShortBreak || s.Phase == PhaseLongBreak
}

// WorkInProgress reports whether a work interval is running or suspended.
func (s State) WorkInProgress() bool {
	return s.Phase == PhaseWorking || (s.Phase == PhasePaused && s.ResumesTo == PhaseWorking)
}

func (s State) String() string { return s.Phase.String() }
