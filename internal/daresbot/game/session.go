// Package game holds the per-chat turn state machine for truth-or-dare. It
// is transport-free: actions come in as validated calls, outcomes go out as
// values for the message layer to render.
package game

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dareside-games/daresbot/internal/database/gamestate/model"
	"github.com/google/uuid"
	"github.com/valyala/fastrand"
)

const (
	StateKindIdle uint8 = iota + 1
	StateKindChoosing
	StateKindResponding
)

var (
	ErrNotYourTurn     = fmt.Errorf("not your turn")
	ErrInvalidState    = fmt.Errorf("action does not apply to the current phase")
	ErrRerollExhausted = fmt.Errorf("reroll budget exhausted")
	ErrNoPlayers       = fmt.Errorf("no players in the roster")
	ErrNotModerator    = fmt.Errorf("moderator only")
	ErrAlreadyJoined   = fmt.Errorf("already joined")
	ErrNotJoined       = fmt.Errorf("not joined")
)

type Response uint8

const (
	ResponseCompleted Response = iota + 1
	ResponseDeclined
	ResponseReroll
)

func NewSession(config Config) *Session {
	return &Session{
		config:    config,
		chatID:    config.ChatID,
		turnIndex: -1,
		rerolls:   map[int64]int{},
	}
}

// NewFromSnapshot rebuilds a session from its persisted form. Call Resume
// afterwards to re-arm the deadline watcher for a revived turn.
func NewFromSnapshot(config Config, snap model.Snapshot) *Session {
	s := NewSession(config)
	s.players = make([]int64, len(snap.Players))
	copy(s.players, snap.Players)
	for id, n := range snap.Rerolls {
		s.rerolls[id] = n
	}
	s.turnIndex = snap.TurnIndex
	s.started = snap.Started
	s.awaitingResponse = snap.AwaitingResponse
	s.currentQuestion = snap.CurrentQuestion
	s.currentCategory = snap.CurrentCategory
	s.promptRef = snap.PromptRef
	s.token = snap.TurnToken

	if s.started && (s.turnIndex < 0 || s.turnIndex >= len(s.players)) {
		// defensive against a snapshot written by an older build
		s.started = false
		s.turnIndex = -1
		s.awaitingResponse = false
	}

	return s
}

// Session is one chat's game. All transitions run to completion under the
// mutex: validate, mutate, persist as a single step, so two actions on the
// same session never interleave.
type Session struct {
	mtx sync.Mutex

	config Config
	chatID int64

	players          []int64
	turnIndex        int
	started          bool
	awaitingResponse bool
	currentQuestion  string
	currentCategory  string
	promptRef        string
	rerolls          map[int64]int

	// token invalidates stale deadline callbacks: it moves on every turn
	// advancement and a watcher only acts when its captured value still
	// matches
	token   uint64
	watcher *watcher
}

func (s *Session) ChatID() int64 { return s.chatID }

func (s *Session) State() uint8 {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	switch {
	case !s.started:
		return StateKindIdle
	case s.awaitingResponse:
		return StateKindResponding
	default:
		return StateKindChoosing
	}
}

// CurrentPlayer returns the player holding the turn, if any.
func (s *Session) CurrentPlayer() (int64, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.currentPlayerLocked()
}

func (s *Session) currentPlayerLocked() (int64, bool) {
	if !s.started || s.turnIndex < 0 || s.turnIndex >= len(s.players) {
		return 0, false
	}
	return s.players[s.turnIndex], true
}

func (s *Session) Snapshot() model.Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.snapshotLocked()
}

// Join adds a player to the roster. Allowed in any state; a joiner during a
// running game slots in at the end of the rotation.
func (s *Session) Join(userID int64) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, id := range s.players {
		if id == userID {
			return Outcome{}, ErrAlreadyJoined
		}
	}

	s.players = append(s.players, userID)
	s.rerolls[userID] = 0

	out := Outcome{Notices: []Notice{{Scope: ScopeRoom, Kind: NoticePlayerJoined, PlayerID: userID}}}
	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// Leave removes the player. When the current player leaves mid-turn the
// session advances immediately so the rotation never points at a departed
// player.
func (s *Session) Leave(userID int64) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.leaveLocked(userID)
}

// Remove is the moderator's forced leave.
func (s *Session) Remove(actorID, targetID int64) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.isModerator(actorID) {
		return Outcome{}, ErrNotModerator
	}

	return s.leaveLocked(targetID)
}

func (s *Session) leaveLocked(userID int64) (Outcome, error) {
	idx := -1
	for i, id := range s.players {
		if id == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Outcome{}, ErrNotJoined
	}

	s.players = append(s.players[:idx], s.players[idx+1:]...)
	delete(s.rerolls, userID)

	out := Outcome{Notices: []Notice{{Scope: ScopeRoom, Kind: NoticePlayerLeft, PlayerID: userID}}}

	if s.started {
		switch {
		case idx == s.turnIndex:
			// the departed player held the turn: step back one slot so
			// advancing lands on the next roster entry
			s.turnIndex = idx - 1
			adv := s.advanceLocked()
			out.Notices = append(out.Notices, adv.Notices...)
			out.Deadline = adv.Deadline
		case idx < s.turnIndex:
			s.turnIndex--
		}
	}

	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// Start shuffles the roster once and opens the first turn. Moderator only.
func (s *Session) Start(actorID int64) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.isModerator(actorID) {
		return Outcome{}, ErrNotModerator
	}
	if s.started {
		return Outcome{}, ErrInvalidState
	}
	if len(s.players) == 0 {
		return Outcome{}, ErrNoPlayers
	}

	shuffle(s.players)
	s.started = true
	s.turnIndex = -1

	out := s.advanceLocked()
	out.Notices = append([]Notice{{Scope: ScopeRoom, Kind: NoticeGameStarted}}, out.Notices...)
	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// Stop halts the game and clears the current turn. Moderator only. Any armed
// watcher is cancelled before Stop returns.
func (s *Session) Stop(actorID int64) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.isModerator(actorID) {
		return Outcome{}, ErrNotModerator
	}
	if !s.started {
		return Outcome{}, ErrInvalidState
	}

	s.stopWatcherLocked()
	s.token++
	s.started = false
	s.awaitingResponse = false
	s.turnIndex = -1
	s.currentQuestion, s.currentCategory, s.promptRef = "", "", ""

	out := Outcome{Notices: []Notice{{Scope: ScopeRoom, Kind: NoticeGameStopped}}}
	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// AdminSkip passes the turn without any score change. Moderator only.
func (s *Session) AdminSkip(actorID int64) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.isModerator(actorID) {
		return Outcome{}, ErrNotModerator
	}

	current, ok := s.currentPlayerLocked()
	if !ok {
		return Outcome{}, ErrInvalidState
	}

	out := s.advanceLocked()
	out.Notices = append([]Notice{{Scope: ScopeRoom, Kind: NoticeSkipped, PlayerID: current}}, out.Notices...)
	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// ChooseCategory draws a prompt for the current player and opens the
// response window.
func (s *Session) ChooseCategory(actorID int64, category string) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.started || s.awaitingResponse {
		return Outcome{}, ErrInvalidState
	}

	current, ok := s.currentPlayerLocked()
	if !ok {
		return Outcome{}, ErrInvalidState
	}
	if actorID != current {
		return Outcome{}, ErrNotYourTurn
	}

	prompt, err := s.config.Bank.Draw(category, s.currentQuestion)
	if err != nil {
		// nothing advanced, the watcher stays armed: an operator has to
		// refill the bank out-of-band
		return Outcome{}, fmt.Errorf("draw %q: %w", category, err)
	}

	s.currentQuestion = prompt
	s.currentCategory = category
	s.awaitingResponse = true
	s.promptRef = uuid.NewString()
	s.armWatcherLocked(current, s.config.ResponseTimeout)

	out := Outcome{
		Notices: []Notice{{
			Scope:       ScopeRoom,
			Kind:        NoticeQuestion,
			PlayerID:    current,
			Category:    category,
			Question:    prompt,
			RerollsLeft: s.config.MaxRerolls - s.rerolls[current],
		}},
		Deadline: s.config.ResponseTimeout,
	}
	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// Respond settles the current question: complete for points, decline for the
// penalty, or reroll for a replacement prompt within the budget.
func (s *Session) Respond(actorID int64, response Response) (Outcome, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.started || !s.awaitingResponse {
		return Outcome{}, ErrInvalidState
	}

	current, ok := s.currentPlayerLocked()
	if !ok {
		return Outcome{}, ErrInvalidState
	}
	if actorID != current {
		return Outcome{}, ErrNotYourTurn
	}

	var out Outcome
	switch response {
	case ResponseCompleted:
		delta := s.config.TruthPoints
		if isDare(s.currentCategory) {
			delta = s.config.DarePoints
		}
		s.config.Ledger.Add(current, delta)

		out = s.advanceLocked()
		out.Notices = append(
			[]Notice{{Scope: ScopeRoom, Kind: NoticeScored, PlayerID: current, Delta: delta}},
			out.Notices...,
		)
	case ResponseDeclined:
		s.config.Ledger.Add(current, s.config.DeclinePenalty)

		out = s.advanceLocked()
		out.Notices = append(
			[]Notice{{Scope: ScopeRoom, Kind: NoticeDeclined, PlayerID: current, Delta: s.config.DeclinePenalty}},
			out.Notices...,
		)
	case ResponseReroll:
		if s.rerolls[current] >= s.config.MaxRerolls {
			return Outcome{}, ErrRerollExhausted
		}

		prompt, err := s.config.Bank.Draw(s.currentCategory, s.currentQuestion)
		if err != nil {
			return Outcome{}, fmt.Errorf("draw %q: %w", s.currentCategory, err)
		}

		s.rerolls[current]++
		s.currentQuestion = prompt
		s.promptRef = uuid.NewString()
		// a replacement prompt gets a fresh full deadline
		s.armWatcherLocked(current, s.config.ResponseTimeout)

		out = Outcome{
			Notices: []Notice{{
				Scope:       ScopeRoom,
				Kind:        NoticeQuestion,
				PlayerID:    current,
				Category:    s.currentCategory,
				Question:    prompt,
				RerollsLeft: s.config.MaxRerolls - s.rerolls[current],
			}},
			Deadline: s.config.ResponseTimeout,
		}
	default:
		return Outcome{}, ErrInvalidState
	}

	out.Snapshot = s.snapshotLocked()
	s.persistLocked()

	return out, nil
}

// Resume re-arms the deadline watcher for a session revived from a
// snapshot. The revived turn gets a fresh full deadline.
func (s *Session) Resume() (Outcome, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	current, ok := s.currentPlayerLocked()
	if !ok {
		return Outcome{}, false
	}

	var out Outcome
	if s.awaitingResponse {
		s.armWatcherLocked(current, s.config.ResponseTimeout)
		out = Outcome{
			Notices: []Notice{{
				Scope:       ScopeRoom,
				Kind:        NoticeQuestion,
				PlayerID:    current,
				Category:    s.currentCategory,
				Question:    s.currentQuestion,
				RerollsLeft: s.config.MaxRerolls - s.rerolls[current],
			}},
			Deadline: s.config.ResponseTimeout,
		}
	} else {
		s.armWatcherLocked(current, s.config.ChoiceTimeout)
		out = Outcome{
			Notices:  []Notice{{Scope: ScopeRoom, Kind: NoticeChooseCategory, PlayerID: current}},
			Deadline: s.config.ChoiceTimeout,
		}
	}

	out.Snapshot = s.snapshotLocked()
	return out, true
}

// advanceLocked moves the turn to the next roster entry: cancels the armed
// watcher, bumps the token, clears transient question state, resets the new
// player's reroll budget and arms the choice watcher. With an empty roster
// it halts the game instead.
func (s *Session) advanceLocked() Outcome {
	s.stopWatcherLocked()
	s.token++
	s.awaitingResponse = false
	s.currentQuestion, s.currentCategory, s.promptRef = "", "", ""

	if len(s.players) == 0 {
		s.started = false
		s.turnIndex = -1
		return Outcome{Notices: []Notice{{Scope: ScopeRoom, Kind: NoticeGameHalted}}}
	}

	s.turnIndex = (s.turnIndex + 1) % len(s.players)
	current := s.players[s.turnIndex]
	s.rerolls[current] = 0
	s.promptRef = uuid.NewString()
	s.armWatcherLocked(current, s.config.ChoiceTimeout)

	return Outcome{
		Notices:  []Notice{{Scope: ScopeRoom, Kind: NoticeChooseCategory, PlayerID: current}},
		Deadline: s.config.ChoiceTimeout,
	}
}

func (s *Session) isModerator(userID int64) bool {
	return s.config.ModeratorFn != nil && s.config.ModeratorFn(userID)
}

func (s *Session) snapshotLocked() model.Snapshot {
	players := make([]int64, len(s.players))
	copy(players, s.players)

	rerolls := make(map[int64]int, len(s.rerolls))
	for id, n := range s.rerolls {
		rerolls[id] = n
	}

	return model.Snapshot{
		ChatID:           s.chatID,
		Players:          players,
		TurnIndex:        s.turnIndex,
		Started:          s.started,
		AwaitingResponse: s.awaitingResponse,
		CurrentQuestion:  s.currentQuestion,
		CurrentCategory:  s.currentCategory,
		Rerolls:          rerolls,
		PromptRef:        s.promptRef,
		TurnToken:        s.token,
		UpdatedAt:        time.Now(),
	}
}

func (s *Session) persistLocked() {
	if s.config.PersistFn != nil {
		s.config.PersistFn(s.snapshotLocked())
	}
}

func isDare(category string) bool {
	return strings.HasPrefix(category, "dare")
}

func shuffle(players []int64) {
	for i := len(players) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		players[i], players[j] = players[j], players[i]
	}
}
