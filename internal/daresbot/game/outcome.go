package game

import (
	"time"

	"github.com/dareside-games/daresbot/internal/database/gamestate/model"
)

type NoticeScope uint8

const (
	// ScopeRoom notices are broadcast to the chat
	ScopeRoom NoticeScope = iota + 1
	// ScopeActor notices go only to the acting player
	ScopeActor
)

type NoticeKind uint8

const (
	NoticePlayerJoined NoticeKind = iota + 1
	NoticePlayerLeft
	NoticeGameStarted
	NoticeGameStopped
	// NoticeGameHalted means the roster drained and the session fell back
	// to idle on its own
	NoticeGameHalted
	// NoticeChooseCategory opens a turn: the named player must pick
	NoticeChooseCategory
	NoticeQuestion
	NoticeScored
	NoticeDeclined
	NoticeTimeout
	NoticeSkipped
)

type Notice struct {
	Scope NoticeScope
	Kind  NoticeKind

	PlayerID    int64
	Category    string
	Question    string
	Delta       int
	RerollsLeft int
}

// Outcome describes what an accepted action did, for the message layer to
// render. Deadline is non-zero when a fresh watcher was armed.
type Outcome struct {
	Notices  []Notice
	Deadline time.Duration
	Snapshot model.Snapshot
}
