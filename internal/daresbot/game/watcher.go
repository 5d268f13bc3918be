package game

import "time"

// watcher is the one cancellable deadline timer a session may have armed.
// It captures the prompt ref, the player it is waiting on and the turn
// token; a fire only acts when the token still matches the live turn.
type watcher struct {
	ref      string
	playerID int64
	token    uint64
	timer    *time.Timer

	// set under the session mutex before the timer is stopped, so a
	// callback that already left AfterFunc's queue still sees it
	stopped bool
}

// armWatcherLocked replaces any armed watcher. At most one watcher exists
// per session at all times.
func (s *Session) armWatcherLocked(playerID int64, d time.Duration) {
	s.stopWatcherLocked()

	w := &watcher{ref: s.promptRef, playerID: playerID, token: s.token}
	w.timer = time.AfterFunc(d, func() { s.deadlineExpired(w) })
	s.watcher = w
}

// stopWatcherLocked cancels the armed watcher. Because the cancelled flag is
// set under the session mutex, a timer goroutine that already fired will
// observe it and discard itself.
func (s *Session) stopWatcherLocked() {
	if s.watcher == nil {
		return
	}
	s.watcher.stopped = true
	s.watcher.timer.Stop()
	s.watcher = nil
}

// deadlineExpired runs on the timer goroutine. A stale fire, one whose
// watcher was cancelled or whose token no longer matches the live turn, is
// discarded silently. A live fire applies the timeout penalty exactly once
// and advances the turn.
func (s *Session) deadlineExpired(w *watcher) {
	s.mtx.Lock()
	if w.stopped || w.token != s.token || !s.started {
		s.mtx.Unlock()
		return
	}

	s.config.Ledger.Add(w.playerID, s.config.TimeoutPenalty)

	out := s.advanceLocked()
	out.Notices = append(
		[]Notice{{Scope: ScopeRoom, Kind: NoticeTimeout, PlayerID: w.playerID, Delta: s.config.TimeoutPenalty}},
		out.Notices...,
	)
	out.Snapshot = s.snapshotLocked()
	s.persistLocked()
	s.mtx.Unlock()

	if s.config.TimeoutFn != nil {
		s.config.TimeoutFn(out)
	}
}
