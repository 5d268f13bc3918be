package daresbot

import (
	"fmt"
	"strings"

	"github.com/dareside-games/daresbot/internal/daresbot/game"
	"github.com/dareside-games/daresbot/internal/daresbot/resource"
	userModel "github.com/dareside-games/daresbot/internal/database/user/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (m *manager) handleCallbackQuery(u userModel.User, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	prefix, choice := splitCallbackData(query.Data)
	switch prefix {
	case resource.CbChoosePrefix:
		return m.handleChooseKind(u, chatID, query, choice)
	case resource.CbSetPrefix:
		return m.handleSetCategory(u, chatID, query, choice)
	case resource.CbRespPrefix:
		return m.handleResponse(u, chatID, query, choice)
	}

	return nil
}

// handleChooseKind narrows truth/dare down to a category bucket. No game
// state changes yet, but only the turn holder may narrow.
func (m *manager) handleChooseKind(u userModel.User, chatID int64, query *tgbotapi.CallbackQuery, choice string) error {
	session, _ := m.session(chatID)
	if current, ok := session.CurrentPlayer(); !ok || current != u.ID {
		return m.answerCallbackAlert(query, resource.TextNotYourTurnMsg)
	}

	if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, resource.TextBucketMsg)
	switch choice {
	case "truth":
		msg.ReplyMarkup = resource.TruthBucketKeyboard
	case "dare":
		msg.ReplyMarkup = resource.DareBucketKeyboard
	default:
		return nil
	}

	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %w", err)
	}

	return nil
}

func (m *manager) handleSetCategory(u userModel.User, chatID int64, query *tgbotapi.CallbackQuery, category string) error {
	session, _ := m.session(chatID)
	out, err := session.ChooseCategory(u.ID, category)
	if err != nil {
		return m.notifyCallbackError(chatID, query, err)
	}

	if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}

	return m.renderOutcome(chatID, out)
}

func (m *manager) handleResponse(u userModel.User, chatID int64, query *tgbotapi.CallbackQuery, choice string) error {
	var response game.Response
	switch choice {
	case "done":
		response = game.ResponseCompleted
	case "decline":
		response = game.ResponseDeclined
	case "change":
		response = game.ResponseReroll
	default:
		return nil
	}

	session, _ := m.session(chatID)
	out, err := session.Respond(u.ID, response)
	if err != nil {
		return m.notifyCallbackError(chatID, query, err)
	}

	if _, err := m.tg.AnswerCallbackQuery(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}

	return m.renderOutcome(chatID, out)
}

func splitCallbackData(data string) (prefix, choice string) {
	parts := strings.SplitN(data, "|", 2)
	if len(parts) != 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
