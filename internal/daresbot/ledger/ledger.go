// Package ledger keeps the per-player score totals. Scores outlive sessions
// and process restarts and are never reset.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	scoreDb "github.com/dareside-games/daresbot/internal/database/score/database"
	"github.com/dareside-games/daresbot/internal/database/score/model"
	"github.com/dareside-games/daresbot/internal/logging"
)

// New loads all persisted entries into memory. The in-memory copy stays
// authoritative; every mutation is written through to the store.
func New(db *scoreDb.DB) (*Ledger, error) {
	l := &Ledger{db: db, entries: map[int64]model.Entry{}}

	list, err := db.FetchAll()
	if err != nil {
		return nil, fmt.Errorf("score db fetch all: %w", err)
	}

	for _, entry := range list {
		l.entries[entry.UserID] = entry
		if entry.Seq >= l.nextSeq {
			l.nextSeq = entry.Seq + 1
		}
	}

	return l, nil
}

type Ledger struct {
	mtx sync.RWMutex

	db      *scoreDb.DB
	entries map[int64]model.Entry
	nextSeq uint64
}

// Add applies one delta to the player's total, creating the entry at zero
// first if the player has never scored. A failed write is logged and the
// in-memory total stands until the next successful write.
func (l *Ledger) Add(userID int64, delta int) int {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	entry, ok := l.entries[userID]
	if !ok {
		entry = model.Entry{UserID: userID, Seq: l.nextSeq}
		l.nextSeq++
	}

	entry.Score += delta
	entry.UpdatedAt = time.Now()
	l.entries[userID] = entry

	if l.db != nil {
		if err := l.db.Store(entry); err != nil {
			logging.DefaultLogger().Named("ledger.Add").Errorf("store score: %v", err)
		}
	}

	return entry.Score
}

// Score returns the player's current total, zero if unknown.
func (l *Ledger) Score(userID int64) int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.entries[userID].Score
}

// TopN returns up to n entries ordered by descending score; ties go to the
// player who scored first.
func (l *Ledger) TopN(n int) []model.Entry {
	l.mtx.RLock()
	list := make([]model.Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		list = append(list, entry)
	}
	l.mtx.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].Seq < list[j].Seq
	})

	if n > 0 && len(list) > n {
		list = list[:n]
	}

	return list
}
