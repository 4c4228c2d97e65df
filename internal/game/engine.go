// internal/game/engine.go
//
// Core puzzle engine for a single player session.
// Responsibilities:
//   - Generate hidden targets of K unique toppings.
//   - Track the pizza being built (at most K distinct topping types).
//   - Validate and score submissions (count of correct toppings only).
//   - Track state transitions: awaiting_guess → solved_pending_advance → next puzzle.
//
// Notes:
//   - The engine is single-threaded. Callers serialize access (see internal/store).
//   - Every operation re-checks the session state first, so a solved puzzle is
//     replaced exactly once by the next topping click or clear.
//   - Randomness comes from an injected Rand; crypto/rand by default.
package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robalobadob/pizza-detective/internal/toppings"
)

const (
	defaultToppingsPerPizza = 3
	defaultPointsPerSolve   = 100
)

// Engine is one player's puzzle session.
type Engine struct {
	catalog          *toppings.Catalog
	k                int
	points           int
	rng              Rand
	observer         Observer
	freshAfterSubmit bool

	target           []string
	guess            []string // distinct toppings in placement order
	score            int
	puzzleAttempts   int
	lifetimeAttempts int
	puzzleNumber     int
	history          []AttemptRecord // newest first
	lastFeedback     *Feedback
	submitted        bool // a scored, unsolved guess is still on the pizza

	life *lifecycle
}

// Option configures an Engine.
type Option func(*Engine)

// WithToppingsPerPizza sets K, the target size and exact guess size.
func WithToppingsPerPizza(k int) Option { return func(e *Engine) { e.k = k } }

// WithRand injects the random source used for targets.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithObserver registers a callback invoked after every operation.
func WithObserver(fn Observer) Option { return func(e *Engine) { e.observer = fn } }

// WithPointsPerSolve overrides the score awarded per solved puzzle.
func WithPointsPerSolve(n int) Option { return func(e *Engine) { e.points = n } }

// WithFreshGuessAfterSubmit makes the first topping click after a scored,
// unsolved submission start an empty pizza instead of adding to the old one.
func WithFreshGuessAfterSubmit(on bool) Option {
	return func(e *Engine) { e.freshAfterSubmit = on }
}

// New constructs an engine and starts the first puzzle.
func New(catalog *toppings.Catalog, opts ...Option) (*Engine, error) {
	e := &Engine{
		catalog: catalog,
		k:       defaultToppingsPerPizza,
		points:  defaultPointsPerSolve,
		rng:     cryptoRand{},
	}
	for _, opt := range opts {
		opt(e)
	}
	switch {
	case catalog == nil || catalog.Len() == 0:
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidConfig)
	case e.k < 1 || e.k > catalog.Len():
		return nil, fmt.Errorf("%w: %d toppings per pizza with %d in catalog", ErrInvalidConfig, e.k, catalog.Len())
	case e.rng == nil:
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	case e.points < 0:
		return nil, fmt.Errorf("%w: negative points per solve", ErrInvalidConfig)
	}

	e.startPuzzle()
	life, err := newLifecycle(e)
	if err != nil {
		return nil, err
	}
	e.life = life
	return e, nil
}

// SelectTopping places a topping type on the pizza.
//
// If the previous puzzle is solved, the next puzzle starts first and the old
// pizza is discarded. Re-selecting a type already on the pizza always succeeds
// and leaves the set unchanged. Adding a new type beyond K fails with
// ErrTooManyToppingTypes and changes nothing.
func (e *Engine) SelectTopping(id string) (sel Selection, err error) {
	defer func() { e.notify(OpSelect, err) }()

	id = strings.ToLower(strings.TrimSpace(id))
	if !e.catalog.Has(id) {
		return Selection{}, &RuleError{Err: ErrUnknownTopping, Message: fmt.Sprintf("There is no %q topping.", id)}
	}
	sel.Topping = id
	sel.NewPuzzle = e.advanceIfSolved()

	if e.freshAfterSubmit && e.submitted {
		e.guess = nil
		e.submitted = false
	}
	if slices.Contains(e.guess, id) {
		sel.AlreadyPlaced = true
		e.lastFeedback = nil
		return sel, nil
	}
	if len(e.guess) >= e.k {
		return sel, &RuleError{
			Err:     ErrTooManyToppingTypes,
			Message: fmt.Sprintf("You can only use %d topping types per pizza.", e.k),
		}
	}
	e.guess = append(e.guess, id)
	e.lastFeedback = nil
	return sel, nil
}

// Clear empties the pizza, or starts the next puzzle when the current one is solved.
// It reports whether a new puzzle was started.
func (e *Engine) Clear() (newPuzzle bool) {
	defer func() { e.notify(OpClear, nil) }()

	if e.advanceIfSolved() {
		return true
	}
	e.guess = nil
	e.lastFeedback = nil
	e.submitted = false
	return false
}

// Submit scores the pizza against the hidden target.
//
// Validation rules (no state changes, no attempt counted on failure):
//   - Puzzle must not be solved and awaiting the player.
//   - Pizza must not be empty.
//   - Pizza must have exactly K distinct topping types.
//
// On success the attempt is prepended to History. A fully correct pizza adds
// the solve points, resets the per-puzzle attempt count and leaves the pizza
// and target in place until the player moves on.
func (e *Engine) Submit() (rec AttemptRecord, err error) {
	defer func() { e.notify(OpSubmit, err) }()

	if e.life.state() == StateSolvedPendingAdvance {
		return AttemptRecord{}, &RuleError{
			Err:     ErrAlreadySolved,
			Message: "Pick a topping (or Clear) to start the next pizza!",
		}
	}
	switch n := len(e.guess); {
	case n == 0:
		return AttemptRecord{}, &RuleError{
			Err:     ErrEmptyGuess,
			Message: "Please add toppings to the pizza first!",
		}
	case n != e.k:
		return AttemptRecord{}, &RuleError{
			Err:     ErrWrongCount,
			Message: fmt.Sprintf("Please submit a pizza with exactly %d topping types.", e.k),
		}
	}

	e.puzzleAttempts++
	e.lifetimeAttempts++

	fb := Classify(e.countCorrect(), e.k, e.puzzleAttempts)
	rec = AttemptRecord{
		Toppings:  slices.Clone(e.guess),
		Feedback:  fb.Text,
		Category:  fb.Category,
		Correct:   fb.Correct,
		IsCorrect: fb.Solved,
		Attempt:   e.puzzleAttempts,
		Puzzle:    e.puzzleNumber,
	}
	e.history = append([]AttemptRecord{rec}, e.history...)
	e.lastFeedback = &fb

	if fb.Solved {
		e.life.send(eventSolve)
	} else {
		e.submitted = true
	}
	return rec, nil
}

// Classify turns a correct count into customer feedback.
// attempts is only used in the solved message.
func Classify(correct, k, attempts int) Feedback {
	fb := Feedback{Correct: correct}
	switch {
	case correct <= 0:
		fb.Category = FeedbackNone
		fb.Correct = 0
		fb.Text = "None of these toppings are correct."
	case correct >= k:
		fb.Category = FeedbackSolved
		fb.Solved = true
		fb.Text = fmt.Sprintf("Perfect! All %d toppings are correct! (Solved in %d attempts)", k, attempts)
	case correct == 1:
		fb.Category = FeedbackPartial
		fb.Text = "Exactly 1 of these toppings is correct."
	default:
		fb.Category = FeedbackPartial
		fb.Text = fmt.Sprintf("Exactly %d of these toppings are correct.", correct)
	}
	return fb
}

// GenerateTarget draws K distinct toppings uniformly without replacement.
// It does not install the result; startPuzzle does.
func (e *Engine) GenerateTarget() []string {
	pool := e.catalog.Names()
	out := make([]string, 0, e.k)
	for i := 0; i < e.k; i++ {
		j := e.rng.Intn(len(pool))
		out = append(out, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}
	return out
}

// Snapshot returns a copy of the renderable state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		TargetHidden:     true,
		ToppingsPerPizza: e.k,
		CurrentGuess:     slices.Clone(e.guess),
		Score:            e.score,
		PuzzleAttempts:   e.puzzleAttempts,
		LifetimeAttempts: e.lifetimeAttempts,
		PuzzleNumber:     e.puzzleNumber,
		History:          make([]AttemptRecord, len(e.history)),
		State:            e.life.state(),
	}
	if s.CurrentGuess == nil {
		s.CurrentGuess = []string{}
	}
	for i, h := range e.history {
		h.Toppings = slices.Clone(h.Toppings)
		s.History[i] = h
	}
	if e.lastFeedback != nil {
		fb := *e.lastFeedback
		s.LastFeedback = &fb
	}
	return s
}

// State returns the current session state.
func (e *Engine) State() State { return e.life.state() }

// Catalog returns the catalog the engine draws from.
func (e *Engine) Catalog() *toppings.Catalog { return e.catalog }

// RevealTarget returns a copy of the hidden target. For tests and debugging only.
func (e *Engine) RevealTarget() []string { return slices.Clone(e.target) }

// startPuzzle installs a fresh target and resets per-puzzle state.
func (e *Engine) startPuzzle() {
	e.target = e.GenerateTarget()
	e.guess = nil
	e.puzzleAttempts = 0
	e.lastFeedback = nil
	e.submitted = false
	e.puzzleNumber++
}

// advanceIfSolved starts the next puzzle when the current one is solved.
func (e *Engine) advanceIfSolved() bool {
	if e.life.state() != StateSolvedPendingAdvance {
		return false
	}
	return e.life.send(eventAdvance)
}

// countCorrect returns |guess ∩ target|.
func (e *Engine) countCorrect() int {
	n := 0
	for _, g := range e.guess {
		if slices.Contains(e.target, g) {
			n++
		}
	}
	return n
}

func (e *Engine) notify(op Op, err error) {
	if e.observer == nil {
		return
	}
	e.observer(Event{Op: op, Err: err, Snapshot: e.Snapshot()})
}
