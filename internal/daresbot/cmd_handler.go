package daresbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dareside-games/daresbot/internal/daresbot/resource"
	userModel "github.com/dareside-games/daresbot/internal/database/user/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (m *manager) handleCommand(u userModel.User, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case resource.CmdStart, resource.CmdHelp:
		return m.sendMarkdown(chatID, resource.TextHelpMsg)
	case resource.CmdMyID:
		return m.sendText(chatID, fmt.Sprintf(resource.TextYourIDMsg, u.ID))
	case resource.CmdJoin:
		session, _ := m.session(chatID)
		out, err := session.Join(u.ID)
		if err != nil {
			return m.notifyActionError(chatID, err)
		}
		return m.renderOutcome(chatID, out)
	case resource.CmdLeave:
		session, _ := m.session(chatID)
		out, err := session.Leave(u.ID)
		if err != nil {
			return m.notifyActionError(chatID, err)
		}
		return m.renderOutcome(chatID, out)
	case resource.CmdStartGame:
		session, _ := m.session(chatID)
		out, err := session.Start(u.ID)
		if err != nil {
			return m.notifyActionError(chatID, err)
		}
		return m.renderOutcome(chatID, out)
	case resource.CmdStopGame:
		session, _ := m.session(chatID)
		out, err := session.Stop(u.ID)
		if err != nil {
			return m.notifyActionError(chatID, err)
		}
		return m.renderOutcome(chatID, out)
	case resource.CmdSkip:
		session, _ := m.session(chatID)
		out, err := session.AdminSkip(u.ID)
		if err != nil {
			return m.notifyActionError(chatID, err)
		}
		return m.renderOutcome(chatID, out)
	case resource.CmdRemove:
		return m.handleRemoveCommand(u, msg)
	case resource.CmdLeaderboard:
		return m.handleLeaderboardCommand(chatID)
	}

	return nil
}

func (m *manager) handleRemoveCommand(u userModel.User, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	arg := strings.TrimPrefix(strings.TrimSpace(msg.CommandArguments()), "@")
	targetID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return m.sendText(chatID, resource.TextRemoveUsageMsg)
	}

	session, _ := m.session(chatID)
	out, err := session.Remove(u.ID, targetID)
	if err != nil {
		return m.notifyActionError(chatID, err)
	}

	if err := m.sendText(chatID, fmt.Sprintf(resource.TextRemovedMsg, targetID)); err != nil {
		return err
	}

	return m.renderOutcome(chatID, out)
}

func (m *manager) handleLeaderboardCommand(chatID int64) error {
	entries := m.scores.TopN(m.config.LeaderboardSize)
	if len(entries) == 0 {
		return m.sendText(chatID, resource.TextLeaderboardEmpty)
	}

	var sb strings.Builder
	sb.WriteString(resource.TextLeaderboardHeader)
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf(resource.TextLeaderboardRow, i+1, m.mention(entry.UserID), entry.Score))
	}

	return m.sendMarkdown(chatID, sb.String())
}
