package game

import (
	"time"

	"github.com/dareside-games/daresbot/internal/database/gamestate/model"
)

// QuestionBank draws prompts for a category. Draw must avoid returning the
// excluded prompt when it reasonably can and fail with the bank's empty
// error when the category has no entries.
type QuestionBank interface {
	Draw(category, excluding string) (string, error)
	Has(category string) bool
}

// ScoreLedger accumulates per-player deltas and returns the new total.
type ScoreLedger interface {
	Add(userID int64, delta int) int
}

type Config struct {
	ChatID int64

	// Per-turn budget of prompt replacements
	MaxRerolls int

	// How long the current player gets to pick a category and to respond
	ChoiceTimeout   time.Duration
	ResponseTimeout time.Duration

	TruthPoints    int
	DarePoints     int
	DeclinePenalty int
	TimeoutPenalty int

	Bank   QuestionBank
	Ledger ScoreLedger

	// ModeratorFn reports whether the actor may start, stop and skip turns
	// and remove players.
	ModeratorFn func(userID int64) bool

	// PersistFn receives the snapshot after every accepted action. Write
	// failures are the callee's concern; in-memory state stays
	// authoritative.
	PersistFn func(snap model.Snapshot)

	// TimeoutFn delivers the outcome produced by a fired deadline, off the
	// caller's goroutine.
	TimeoutFn func(out Outcome)
}
