// Package daresbot wires the turn engine to Telegram: it routes updates to
// per-chat game sessions and renders their outcomes back into the chat.
package daresbot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dareside-games/daresbot/internal/daresbot/game"
	"github.com/dareside-games/daresbot/internal/daresbot/ledger"
	stateDb "github.com/dareside-games/daresbot/internal/database/gamestate/database"
	stateModel "github.com/dareside-games/daresbot/internal/database/gamestate/model"
	userDb "github.com/dareside-games/daresbot/internal/database/user/database"
	userModel "github.com/dareside-games/daresbot/internal/database/user/model"
	"github.com/dareside-games/daresbot/internal/logging"
	"github.com/dareside-games/daresbot/internal/questions"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"golang.org/x/sync/errgroup"
)

var ErrCommandNotFound = fmt.Errorf("command not found")

func NewManager(
	tg *tgbotapi.BotAPI,
	config *Config,
	userDB *userDb.DB,
	stateDB *stateDb.DB,
	bank *questions.Bank,
	scores *ledger.Ledger,
) *manager {
	return &manager{
		tg:       tg,
		config:   config,
		sessions: map[int64]*game.Session{},
		userDB:   userDB,
		stateDB:  stateDB,
		bank:     bank,
		scores:   scores,
	}
}

type manager struct {
	mtx sync.RWMutex

	tg     *tgbotapi.BotAPI
	config *Config

	// key: chat id, created lazily on first interaction, never deleted
	sessions map[int64]*game.Session

	userDB  *userDb.DB
	stateDB *stateDb.DB
	bank    *questions.Bank
	scores  *ledger.Ledger

	cancel func()
}

func (m *manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = int(m.config.TgBotPollTimeout.Seconds())
	updates, err := m.tg.GetUpdatesChan(upd)
	if err != nil {
		return fmt.Errorf("tg get updates chan: %w", err)
	}

	if err := m.restoreSessions(ctx); err != nil {
		return fmt.Errorf("restore sessions: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < runtime.NumCPU(); i++ {
		g.Go(func() error {
			return m.pool(ctx, updates)
		})
	}

	return g.Wait()
}

func (m *manager) pool(ctx context.Context, updCh tgbotapi.UpdatesChannel) error {
	logger := logging.FromContext(ctx).Named("manager.pool")
	for {
		select {
		case update := <-updCh:
			u, err := m.recvUser(update)
			if err != nil {
				if !errors.Is(err, ErrCommandNotFound) {
					logger.Errorf("recv user: %v", err)
				}
				continue
			}

			if update.Message != nil && update.Message.IsCommand() {
				if err := m.handleCommand(u, update.Message); err != nil {
					logger.Errorf("handle command: %v", err)
				}
			}

			if update.CallbackQuery != nil {
				if err := m.handleCallbackQuery(u, update.CallbackQuery); err != nil {
					logger.Errorf("handle callback query: %v", err)
				}
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// restoreSessions revives every persisted session and re-arms watchers for
// turns that were live when the process went down.
func (m *manager) restoreSessions(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("manager.restoreSessions")

	snaps, err := m.stateDB.FetchAll()
	if err != nil && !errors.Is(err, stateDb.ErrNotFound) {
		return fmt.Errorf("state db fetch all: %w", err)
	}

	m.mtx.Lock()
	for _, snap := range snaps {
		session := game.NewFromSnapshot(m.gameConfig(snap.ChatID), snap)
		m.sessions[snap.ChatID] = session
	}
	m.mtx.Unlock()

	for _, snap := range snaps {
		session, _ := m.session(snap.ChatID)
		if out, ok := session.Resume(); ok {
			logger.Infof("resumed session for chat %d", snap.ChatID)
			if err := m.renderOutcome(snap.ChatID, out); err != nil {
				logger.Errorf("render resumed outcome: %v", err)
			}
		}
	}

	logger.Infof("restored %d sessions", len(snaps))
	return nil
}

// session returns the chat's session, creating it on first interaction.
func (m *manager) session(chatID int64) (*game.Session, bool) {
	m.mtx.RLock()
	session, ok := m.sessions[chatID]
	m.mtx.RUnlock()
	if ok {
		return session, false
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()
	if session, ok := m.sessions[chatID]; ok {
		return session, false
	}

	session = game.NewSession(m.gameConfig(chatID))
	m.sessions[chatID] = session
	return session, true
}

func (m *manager) gameConfig(chatID int64) game.Config {
	return game.Config{
		ChatID:          chatID,
		MaxRerolls:      m.config.MaxRerolls,
		ChoiceTimeout:   m.config.ChoiceTimeout,
		ResponseTimeout: m.config.ResponseTimeout,
		TruthPoints:     m.config.TruthPoints,
		DarePoints:      m.config.DarePoints,
		DeclinePenalty:  m.config.DeclinePenalty,
		TimeoutPenalty:  m.config.TimeoutPenalty,
		Bank:            m.bank,
		Ledger:          m.scores,
		ModeratorFn:     m.isModerator,
		PersistFn: func(snap stateModel.Snapshot) {
			if err := m.stateDB.Store(snap); err != nil {
				logging.DefaultLogger().Named("manager.persist").
					Errorf("store session %d: %v", snap.ChatID, err)
			}
		},
		TimeoutFn: func(out game.Outcome) {
			if err := m.renderOutcome(chatID, out); err != nil {
				logging.DefaultLogger().Named("manager.timeout").
					Errorf("render timeout outcome for chat %d: %v", chatID, err)
			}
		},
	}
}

// isModerator accepts the configured admin id and any user stored with the
// admin flag.
func (m *manager) isModerator(userID int64) bool {
	if m.config.AdminID != 0 && userID == m.config.AdminID {
		return true
	}

	u, err := m.userDB.Fetch(userID)
	if err != nil {
		return false
	}

	return u.Admin
}

// recvUser resolves the acting user, registering first-seen users.
func (m *manager) recvUser(upd tgbotapi.Update) (userModel.User, error) {
	var tgUser *tgbotapi.User
	var u userModel.User
	switch {
	case upd.CallbackQuery != nil:
		tgUser = upd.CallbackQuery.From
	case upd.Message != nil:
		tgUser = upd.Message.From
	default:
		return u, ErrCommandNotFound
	}

	u, err := m.userDB.Fetch(int64(tgUser.ID))
	if err != nil {
		if !errors.Is(err, userDb.ErrNotFound) {
			return u, fmt.Errorf("userdb fetch: %w", err)
		}

		newUser := userModel.User{
			ID:        int64(tgUser.ID),
			FirstName: tgUser.FirstName,
			LastName:  tgUser.LastName,
			Username:  tgUser.UserName,
			Admin:     tgUser.UserName != "" && tgUser.UserName == m.config.Admin,
			CreatedAt: time.Now(),
		}

		if err := m.userDB.Store(newUser); err != nil {
			return u, fmt.Errorf("userdb store: %w", err)
		}
		u = newUser
	}

	return u, nil
}
