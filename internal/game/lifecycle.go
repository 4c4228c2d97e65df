package game

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Statechart ids for the puzzle lifecycle.
const (
	stateAwaiting statekit.StateID = statekit.StateID(StateAwaitingGuess)
	stateSolved   statekit.StateID = statekit.StateID(StateSolvedPendingAdvance)

	eventSolve   statekit.EventType = "SOLVE"
	eventAdvance statekit.EventType = "ADVANCE"
)

// lifecycle drives the two-state puzzle statechart for one engine.
//
//	awaiting_guess --SOLVE/awardSolve--> solved_pending_advance
//	solved_pending_advance --ADVANCE/startPuzzle--> awaiting_guess
type lifecycle struct {
	interp *statekit.Interpreter[*Engine]
}

func newLifecycle(e *Engine) (*lifecycle, error) {
	machine, err := statekit.NewMachine[*Engine]("puzzle").
		WithInitial(stateAwaiting).
		WithContext(e).
		WithAction("awardSolve", awardSolve).
		WithAction("startPuzzle", startPuzzle).
		State(stateAwaiting).
			On(eventSolve).Target(stateSolved).Do("awardSolve").
			Done().
		State(stateSolved).
			On(eventAdvance).Target(stateAwaiting).Do("startPuzzle").
			Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("build puzzle statechart: %w", err)
	}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Engine) {
		*c = e
	})
	interp.Start()
	return &lifecycle{interp: interp}, nil
}

func (l *lifecycle) state() State {
	return State(l.interp.State().Value)
}

// send fires ev only when the current state handles it.
func (l *lifecycle) send(ev statekit.EventType) bool {
	switch {
	case ev == eventSolve && l.interp.Matches(stateAwaiting):
	case ev == eventAdvance && l.interp.Matches(stateSolved):
	default:
		return false
	}
	l.interp.Send(statekit.Event{Type: ev})
	return true
}

func awardSolve(e **Engine, _ statekit.Event) {
	if e == nil || *e == nil {
		return
	}
	(*e).score += (*e).points
	(*e).puzzleAttempts = 0
}

func startPuzzle(e **Engine, _ statekit.Event) {
	if e == nil || *e == nil {
		return
	}
	(*e).startPuzzle()
}
