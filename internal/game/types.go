// internal/game/types.go
//
// Core type definitions for the pizza puzzle engine.
// Defines:
//   - State: puzzle session state (awaiting a guess / solved, waiting for the player).
//   - Feedback: the customer's verdict on a submitted pizza.
//   - AttemptRecord: one scored submission, kept in History.
//   - Snapshot: read model handed to the presentation layer.
//   - RuleError + sentinels: recoverable, user-facing validation failures.

package game

import "errors"

// State is the session state of the current puzzle.
type State string

const (
	StateAwaitingGuess        State = "awaiting_guess"
	StateSolvedPendingAdvance State = "solved_pending_advance"
)

// FeedbackCategory buckets a scored submission.
//   - "none":    no guessed topping is in the target.
//   - "partial": some, but not all, guessed toppings are in the target.
//   - "solved":  the guess equals the target.
type FeedbackCategory string

const (
	FeedbackNone    FeedbackCategory = "none"
	FeedbackPartial FeedbackCategory = "partial"
	FeedbackSolved  FeedbackCategory = "solved"
)

// Feedback is the verdict for one valid submission.
// It carries the number of correct toppings, never which ones.
type Feedback struct {
	Category FeedbackCategory `json:"category"`
	Correct  int              `json:"correct"`
	Text     string           `json:"text"`
	Solved   bool             `json:"solved"`
}

// AttemptRecord is an immutable entry in the session history.
type AttemptRecord struct {
	Toppings  []string         `json:"toppings"`  // unique toppings guessed, in placement order
	Feedback  string           `json:"feedback"`  // customer text shown for the attempt
	Category  FeedbackCategory `json:"category"`
	Correct   int              `json:"correct"`
	IsCorrect bool             `json:"isCorrect"`
	Attempt   int              `json:"attempt"` // 1-based, within its puzzle
	Puzzle    int              `json:"puzzle"`  // 1-based puzzle number within the session
}

// Snapshot is a copy of everything the UI may render. The target is never included.
type Snapshot struct {
	TargetHidden     bool            `json:"targetHidden"`
	ToppingsPerPizza int             `json:"toppingsPerPizza"`
	CurrentGuess     []string        `json:"currentGuess"`
	Score            int             `json:"score"`
	PuzzleAttempts   int             `json:"puzzleAttempts"`
	LifetimeAttempts int             `json:"lifetimeAttempts"`
	PuzzleNumber     int             `json:"puzzleNumber"`
	History          []AttemptRecord `json:"history"`
	State            State           `json:"state"`
	LastFeedback     *Feedback       `json:"lastFeedback,omitempty"`
}

// Selection reports what a SelectTopping call did.
type Selection struct {
	Topping       string `json:"topping"`
	AlreadyPlaced bool   `json:"alreadyPlaced"` // type was on the pizza already; set unchanged
	NewPuzzle     bool   `json:"newPuzzle"`     // a solved puzzle was replaced before placing
}

// Op names an engine operation in observer events.
type Op string

const (
	OpSelect Op = "select"
	OpClear  Op = "clear"
	OpSubmit Op = "submit"
)

// Event is delivered to the observer after every operation.
type Event struct {
	Op       Op
	Err      error // nil on success
	Snapshot Snapshot
}

// Observer receives state snapshots; it must not call back into the engine.
type Observer func(Event)

var (
	ErrTooManyToppingTypes = errors.New("too many topping types")
	ErrEmptyGuess          = errors.New("empty guess")
	ErrWrongCount          = errors.New("wrong number of topping types")
	ErrAlreadySolved       = errors.New("puzzle already solved")
	ErrUnknownTopping      = errors.New("unknown topping")
	ErrInvalidConfig       = errors.New("invalid engine config")
)

// RuleError is a validation failure with the message the player should see.
// errors.Is matches it against the sentinel in Err.
type RuleError struct {
	Err     error
	Message string
}

func (e *RuleError) Error() string { return e.Message }
func (e *RuleError) Unwrap() error { return e.Err }
