package game

import (
	"sync"
	"testing"
	"time"

	"github.com/dareside-games/daresbot/internal/database/gamestate/model"
	"github.com/dareside-games/daresbot/internal/questions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moderatorID int64 = 100

type stubBank struct {
	prompts map[string][]string
}

func (b *stubBank) Draw(category, excluding string) (string, error) {
	list := b.prompts[category]
	if len(list) == 0 {
		return "", questions.ErrEmptyBank
	}
	for _, p := range list {
		if p != excluding {
			return p, nil
		}
	}
	return list[0], nil
}

func (b *stubBank) Has(category string) bool { return len(b.prompts[category]) > 0 }

type recordLedger struct {
	mtx    sync.Mutex
	scores map[int64]int
	adds   int
}

func (l *recordLedger) Add(userID int64, delta int) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.scores[userID] += delta
	l.adds++
	return l.scores[userID]
}

func (l *recordLedger) score(userID int64) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.scores[userID]
}

func (l *recordLedger) addCount() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.adds
}

func newTestConfig() (Config, *recordLedger, *stubBank) {
	bank := &stubBank{prompts: map[string][]string{
		"truth_boy": {"truth one", "truth two", "truth three"},
		"dare_girl": {"dare one", "dare two"},
	}}
	scores := &recordLedger{scores: map[int64]int{}}
	config := Config{
		ChatID:          1,
		MaxRerolls:      2,
		ChoiceTimeout:   time.Hour,
		ResponseTimeout: time.Hour,
		TruthPoints:     1,
		DarePoints:      2,
		DeclinePenalty:  -1,
		TimeoutPenalty:  -1,
		Bank:            bank,
		Ledger:          scores,
		ModeratorFn:     func(userID int64) bool { return userID == moderatorID },
	}
	return config, scores, bank
}

func (s *Session) testWatcher() *watcher {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.watcher
}

func startedSession(t *testing.T, players ...int64) (*Session, *recordLedger) {
	t.Helper()

	config, scores, _ := newTestConfig()
	s := NewSession(config)
	for _, id := range players {
		_, err := s.Join(id)
		require.NoError(t, err)
	}

	out, err := s.Start(moderatorID)
	require.NoError(t, err)
	require.NotZero(t, out.Deadline)

	return s, scores
}

func TestJoinLeaveRoster(t *testing.T) {
	t.Parallel()

	config, _, _ := newTestConfig()
	s := NewSession(config)

	_, err := s.Join(1)
	require.NoError(t, err)
	_, err = s.Join(2)
	require.NoError(t, err)

	_, err = s.Join(1)
	require.ErrorIs(t, err, ErrAlreadyJoined)

	snap := s.Snapshot()
	assert.Equal(t, []int64{1, 2}, snap.Players)
	assert.Equal(t, -1, snap.TurnIndex)
	assert.False(t, snap.Started)

	_, err = s.Leave(3)
	require.ErrorIs(t, err, ErrNotJoined)

	_, err = s.Leave(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, s.Snapshot().Players)
}

func TestStartGuards(t *testing.T) {
	t.Parallel()

	config, _, _ := newTestConfig()
	s := NewSession(config)

	_, err := s.Start(1)
	require.ErrorIs(t, err, ErrNotModerator)

	_, err = s.Start(moderatorID)
	require.ErrorIs(t, err, ErrNoPlayers)

	_, err = s.Join(1)
	require.NoError(t, err)
	_, err = s.Start(moderatorID)
	require.NoError(t, err)

	_, err = s.Start(moderatorID)
	require.ErrorIs(t, err, ErrInvalidState)

	snap := s.Snapshot()
	assert.True(t, snap.Started)
	assert.GreaterOrEqual(t, snap.TurnIndex, 0)
	assert.Less(t, snap.TurnIndex, len(snap.Players))
}

func TestTurnFlowCompletedTruth(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2, 3)
	assert.Equal(t, StateKindChoosing, s.State())

	current, ok := s.CurrentPlayer()
	require.True(t, ok)

	var other int64
	for _, id := range []int64{1, 2, 3} {
		if id != current {
			other = id
			break
		}
	}

	_, err := s.ChooseCategory(other, "truth_boy")
	require.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, StateKindChoosing, s.State())

	out, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)
	require.Len(t, out.Notices, 1)
	assert.Equal(t, NoticeQuestion, out.Notices[0].Kind)
	assert.NotEmpty(t, out.Notices[0].Question)
	assert.Equal(t, StateKindResponding, s.State())

	out, err = s.Respond(current, ResponseCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, scores.score(current))
	assert.Equal(t, NoticeScored, out.Notices[0].Kind)
	assert.Equal(t, StateKindChoosing, s.State())

	next, ok := s.CurrentPlayer()
	require.True(t, ok)
	assert.NotEqual(t, current, next)
	assert.False(t, s.Snapshot().AwaitingResponse)
}

func TestDareAwardsDarePoints(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "dare_girl")
	require.NoError(t, err)
	_, err = s.Respond(current, ResponseCompleted)
	require.NoError(t, err)

	assert.Equal(t, 2, scores.score(current))
}

func TestDeclineAppliesPenalty(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)
	_, err = s.Respond(current, ResponseDeclined)
	require.NoError(t, err)

	assert.Equal(t, -1, scores.score(current))
	assert.Equal(t, StateKindChoosing, s.State())
}

func TestRerollBudget(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	out, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)
	first := out.Notices[0].Question

	out, err = s.Respond(current, ResponseReroll)
	require.NoError(t, err)
	assert.NotEqual(t, first, out.Notices[0].Question)
	assert.Equal(t, 1, out.Notices[0].RerollsLeft)
	assert.NotZero(t, out.Deadline)

	out, err = s.Respond(current, ResponseReroll)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Notices[0].RerollsLeft)

	before := s.Snapshot()
	_, err = s.Respond(current, ResponseReroll)
	require.ErrorIs(t, err, ErrRerollExhausted)

	after := s.Snapshot()
	assert.Equal(t, before.CurrentQuestion, after.CurrentQuestion)
	assert.Equal(t, before.Rerolls, after.Rerolls)
	assert.Equal(t, StateKindResponding, s.State())
}

func TestRespondOutsideResponseWindow(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.Respond(current, ResponseCompleted)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 0, scores.addCount())
}

func TestWrongPlayerRespond(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)

	other := int64(1)
	if current == 1 {
		other = 2
	}

	before := s.Snapshot()
	_, err = s.Respond(other, ResponseCompleted)
	require.ErrorIs(t, err, ErrNotYourTurn)

	after := s.Snapshot()
	assert.Equal(t, before.TurnIndex, after.TurnIndex)
	assert.Equal(t, before.CurrentQuestion, after.CurrentQuestion)
	assert.Equal(t, 0, scores.addCount())
}

func TestEmptyBankKeepsState(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	before := s.Snapshot()
	_, err := s.ChooseCategory(current, "no_such_category")
	require.ErrorIs(t, err, questions.ErrEmptyBank)

	after := s.Snapshot()
	assert.Equal(t, StateKindChoosing, s.State())
	assert.Equal(t, before.TurnToken, after.TurnToken)
	require.NotNil(t, s.testWatcher())
}

func TestStaleWatcherIsNoOp(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)

	stale := s.testWatcher()
	require.NotNil(t, stale)

	_, err = s.Respond(current, ResponseCompleted)
	require.NoError(t, err)
	addsAfterRespond := scores.addCount()
	turnAfterRespond := s.Snapshot().TurnIndex

	// the response already advanced the turn: a late fire must discard
	// itself without a second penalty
	s.deadlineExpired(stale)
	s.deadlineExpired(stale)

	assert.Equal(t, addsAfterRespond, scores.addCount())
	assert.Equal(t, turnAfterRespond, s.Snapshot().TurnIndex)
}

func TestDeadlineAppliesPenaltyOnce(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)

	live := s.testWatcher()
	require.NotNil(t, live)
	live.timer.Stop()

	s.deadlineExpired(live)
	assert.Equal(t, -1, scores.score(current))

	next, ok := s.CurrentPlayer()
	require.True(t, ok)
	assert.NotEqual(t, current, next)
	assert.Equal(t, StateKindChoosing, s.State())

	// a duplicate invocation with the same token changes nothing
	adds := scores.addCount()
	s.deadlineExpired(live)
	assert.Equal(t, adds, scores.addCount())
}

func TestDeadlineFiresFromTimer(t *testing.T) {
	t.Parallel()

	config, scores, _ := newTestConfig()
	config.ChoiceTimeout = 20 * time.Millisecond
	config.ResponseTimeout = 20 * time.Millisecond

	fired := make(chan Outcome, 8)
	config.TimeoutFn = func(out Outcome) { fired <- out }

	s := NewSession(config)
	_, err := s.Join(1)
	require.NoError(t, err)
	_, err = s.Join(2)
	require.NoError(t, err)
	_, err = s.Start(moderatorID)
	require.NoError(t, err)

	current, _ := s.CurrentPlayer()

	select {
	case out := <-fired:
		require.NotEmpty(t, out.Notices)
		assert.Equal(t, NoticeTimeout, out.Notices[0].Kind)
		assert.Equal(t, current, out.Notices[0].PlayerID)
	case <-time.After(2 * time.Second):
		t.Fatal("deadline watcher did not fire")
	}

	assert.Equal(t, -1, scores.score(current))

	_, err = s.Stop(moderatorID)
	require.NoError(t, err)
}

func TestRearmCancelsPriorWatcher(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)
	w1 := s.testWatcher()

	_, err = s.Respond(current, ResponseReroll)
	require.NoError(t, err)
	w2 := s.testWatcher()
	require.NotSame(t, w1, w2)

	adds := scores.addCount()
	s.deadlineExpired(w1)
	assert.Equal(t, adds, scores.addCount())
	assert.Equal(t, StateKindResponding, s.State())
}

func TestLeaveOfCurrentPlayerAdvances(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2, 3)
	current, _ := s.CurrentPlayer()

	out, err := s.Leave(current)
	require.NoError(t, err)
	assert.NotZero(t, out.Deadline)

	next, ok := s.CurrentPlayer()
	require.True(t, ok)
	assert.NotEqual(t, current, next)

	snap := s.Snapshot()
	assert.True(t, snap.Started)
	assert.Len(t, snap.Players, 2)
	assert.GreaterOrEqual(t, snap.TurnIndex, 0)
	assert.Less(t, snap.TurnIndex, len(snap.Players))
}

func TestRosterDrainHaltsGame(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2)

	_, err := s.Leave(1)
	require.NoError(t, err)

	out, err := s.Leave(2)
	require.NoError(t, err)

	halted := false
	for _, notice := range out.Notices {
		if notice.Kind == NoticeGameHalted {
			halted = true
		}
	}
	assert.True(t, halted)
	assert.Equal(t, StateKindIdle, s.State())
	assert.Nil(t, s.testWatcher())
}

func TestStopCancelsWatcherSynchronously(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)
	w := s.testWatcher()

	_, err = s.Stop(1)
	require.ErrorIs(t, err, ErrNotModerator)

	_, err = s.Stop(moderatorID)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.False(t, snap.Started)
	assert.False(t, snap.AwaitingResponse)
	assert.Empty(t, snap.CurrentQuestion)
	assert.Empty(t, snap.CurrentCategory)
	assert.Nil(t, s.testWatcher())

	adds := scores.addCount()
	s.deadlineExpired(w)
	assert.Equal(t, adds, scores.addCount())
}

func TestAdminSkip(t *testing.T) {
	t.Parallel()

	s, scores := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.AdminSkip(current)
	require.ErrorIs(t, err, ErrNotModerator)

	out, err := s.AdminSkip(moderatorID)
	require.NoError(t, err)
	assert.Equal(t, NoticeSkipped, out.Notices[0].Kind)
	assert.Equal(t, 0, scores.addCount())

	next, _ := s.CurrentPlayer()
	assert.NotEqual(t, current, next)
}

func TestRemoveIsModeratorOnly(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2)

	_, err := s.Remove(1, 2)
	require.ErrorIs(t, err, ErrNotModerator)

	_, err = s.Remove(moderatorID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, s.Snapshot().Players)
}

func TestPersistCalledOnAcceptedActionsOnly(t *testing.T) {
	t.Parallel()

	config, _, _ := newTestConfig()
	var persisted []model.Snapshot
	config.PersistFn = func(snap model.Snapshot) { persisted = append(persisted, snap) }

	s := NewSession(config)

	_, err := s.Join(1)
	require.NoError(t, err)
	require.Len(t, persisted, 1)

	_, err = s.Join(1)
	require.ErrorIs(t, err, ErrAlreadyJoined)
	require.Len(t, persisted, 1)

	_, err = s.Start(moderatorID)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.True(t, persisted[1].Started)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2, 3)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)

	snap := s.Snapshot()

	config, _, _ := newTestConfig()
	restored := NewFromSnapshot(config, snap)
	got := restored.Snapshot()

	assert.Equal(t, snap.Players, got.Players)
	assert.Equal(t, snap.TurnIndex, got.TurnIndex)
	assert.Equal(t, snap.Started, got.Started)
	assert.Equal(t, snap.AwaitingResponse, got.AwaitingResponse)
	assert.Equal(t, snap.CurrentQuestion, got.CurrentQuestion)
	assert.Equal(t, snap.CurrentCategory, got.CurrentCategory)
	assert.Equal(t, snap.Rerolls, got.Rerolls)
	assert.Equal(t, snap.PromptRef, got.PromptRef)
	assert.Equal(t, snap.TurnToken, got.TurnToken)

	out, ok := restored.Resume()
	require.True(t, ok)
	assert.Equal(t, NoticeQuestion, out.Notices[0].Kind)
	assert.NotZero(t, out.Deadline)
	require.NotNil(t, restored.testWatcher())
}

func TestRerollBudgetResetsOnNewTurn(t *testing.T) {
	t.Parallel()

	s, _ := startedSession(t, 1, 2)
	current, _ := s.CurrentPlayer()

	_, err := s.ChooseCategory(current, "truth_boy")
	require.NoError(t, err)
	_, err = s.Respond(current, ResponseReroll)
	require.NoError(t, err)
	_, err = s.Respond(current, ResponseCompleted)
	require.NoError(t, err)

	// the same player's next turn starts with a full budget again
	next, _ := s.CurrentPlayer()
	_, err = s.ChooseCategory(next, "truth_boy")
	require.NoError(t, err)
	_, err = s.Respond(next, ResponseCompleted)
	require.NoError(t, err)

	again, _ := s.CurrentPlayer()
	require.Equal(t, current, again)

	out, err := s.ChooseCategory(again, "truth_boy")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Notices[0].RerollsLeft)
}
