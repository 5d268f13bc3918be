package daresbot

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dareside-games/daresbot/internal/daresbot/game"
	"github.com/dareside-games/daresbot/internal/daresbot/resource"
	"github.com/dareside-games/daresbot/internal/questions"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// renderOutcome turns the engine's notices into chat messages, attaching
// the inline keyboard matching the new phase.
func (m *manager) renderOutcome(chatID int64, out game.Outcome) error {
	for _, notice := range out.Notices {
		msg := tgbotapi.NewMessage(chatID, "")
		msg.ParseMode = tgbotapi.ModeMarkdown

		switch notice.Kind {
		case game.NoticePlayerJoined:
			msg.Text = fmt.Sprintf(resource.TextPlayerJoinedMsg, m.mention(notice.PlayerID))
		case game.NoticePlayerLeft:
			msg.Text = fmt.Sprintf(resource.TextPlayerLeftMsg, m.mention(notice.PlayerID))
		case game.NoticeGameStarted:
			msg.Text = resource.TextGameStartedMsg
		case game.NoticeGameStopped:
			msg.Text = resource.TextGameStoppedMsg
		case game.NoticeGameHalted:
			msg.Text = resource.TextGameHaltedMsg
		case game.NoticeChooseCategory:
			msg.Text = fmt.Sprintf(resource.TextChooseMsg, m.mention(notice.PlayerID))
			msg.ReplyMarkup = resource.ChooseKeyboard
		case game.NoticeQuestion:
			msg.Text = fmt.Sprintf(
				resource.TextQuestionMsg,
				m.mention(notice.PlayerID),
				notice.Category,
				notice.Question,
				int(out.Deadline.Seconds()),
				notice.RerollsLeft,
			)
			msg.ReplyMarkup = resource.RespondKeyboard
		case game.NoticeScored:
			msg.Text = fmt.Sprintf(resource.TextScoredMsg, m.mention(notice.PlayerID), notice.Delta)
		case game.NoticeDeclined:
			msg.Text = fmt.Sprintf(resource.TextDeclinedMsg, m.mention(notice.PlayerID), notice.Delta)
		case game.NoticeTimeout:
			msg.Text = fmt.Sprintf(resource.TextTimeoutMsg, m.mention(notice.PlayerID), notice.Delta)
		case game.NoticeSkipped:
			msg.Text = fmt.Sprintf(resource.TextSkippedMsg, m.mention(notice.PlayerID))
		default:
			continue
		}

		if _, err := m.tg.Send(msg); err != nil {
			return fmt.Errorf("send msg: %w", err)
		}
	}

	return nil
}

// notifyActionError converts a rejected command into a chat reply. Rejected
// actions never propagate further.
func (m *manager) notifyActionError(chatID int64, err error) error {
	return m.sendText(chatID, actionErrorText(err))
}

// notifyCallbackError answers a rejected inline-button press with an
// ephemeral alert visible only to the actor. An empty question bank is the
// exception: the whole room gets told, since only an operator can fix it.
func (m *manager) notifyCallbackError(chatID int64, query *tgbotapi.CallbackQuery, err error) error {
	if errors.Is(err, questions.ErrEmptyBank) {
		if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallback(query.ID, "")); err != nil {
			return fmt.Errorf("answer callback: %w", err)
		}
		return m.sendText(chatID, resource.TextEmptyBankMsg)
	}

	if errors.Is(err, game.ErrInvalidState) {
		// a stale button from an earlier turn
		return m.answerCallbackAlert(query, resource.TextWrongPhaseMsg)
	}

	return m.answerCallbackAlert(query, actionErrorText(err))
}

func actionErrorText(err error) string {
	switch {
	case errors.Is(err, game.ErrNotModerator):
		return resource.TextModeratorOnlyMsg
	case errors.Is(err, game.ErrNotYourTurn):
		return resource.TextNotYourTurnMsg
	case errors.Is(err, game.ErrRerollExhausted):
		return resource.TextRerollExhaustedMsg
	case errors.Is(err, game.ErrAlreadyJoined):
		return resource.TextAlreadyJoinedMsg
	case errors.Is(err, game.ErrNotJoined):
		return resource.TextNotJoinedMsg
	case errors.Is(err, game.ErrNoPlayers):
		return resource.TextNoPlayersMsg
	case errors.Is(err, questions.ErrEmptyBank):
		return resource.TextEmptyBankMsg
	case errors.Is(err, game.ErrInvalidState):
		return resource.TextNotStartedMsg
	default:
		return resource.TextWrongPhaseMsg
	}
}

func (m *manager) answerCallbackAlert(query *tgbotapi.CallbackQuery, text string) error {
	if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallbackWithAlert(query.ID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (m *manager) sendText(chatID int64, text string) error {
	if _, err := m.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send msg: %w", err)
	}
	return nil
}

func (m *manager) sendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %w", err)
	}
	return nil
}

// mention resolves a player id to the form the chat knows them by.
func (m *manager) mention(userID int64) string {
	u, err := m.userDB.Fetch(userID)
	if err != nil || u.Mention() == "" {
		return strconv.FormatInt(userID, 10)
	}
	return u.Mention()
}
