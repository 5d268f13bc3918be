package resource

import (
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// bot commands
const (
	CmdStart       = "start"
	CmdHelp        = "help"
	CmdMyID        = "myid"
	CmdJoin        = "join"
	CmdLeave       = "leave"
	CmdStartGame   = "startgame"
	CmdStopGame    = "stopgame"
	CmdSkip        = "skip"
	CmdRemove      = "remove"
	CmdLeaderboard = "leaderboard"
)

// callback query data. The prefix routes the update, the suffix carries the
// choice.
const (
	CbChoosePrefix = "choose"
	CbSetPrefix    = "set"
	CbRespPrefix   = "resp"

	CbDataTruth = "choose|truth"
	CbDataDare  = "choose|dare"

	CbDataTruthBoy  = "set|truth_boy"
	CbDataTruthGirl = "set|truth_girl"
	CbDataDareBoy   = "set|dare_boy"
	CbDataDareGirl  = "set|dare_girl"

	CbDataDone    = "resp|done"
	CbDataDecline = "resp|decline"
	CbDataReroll  = "resp|change"
)

var (
	ChooseKeyboard = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(emoji.BlueCircle.String()+" Truth", CbDataTruth),
			tgbotapi.NewInlineKeyboardButtonData(emoji.RedCircle.String()+" Dare", CbDataDare),
		),
	)

	TruthBucketKeyboard = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("For a boy", CbDataTruthBoy),
			tgbotapi.NewInlineKeyboardButtonData("For a girl", CbDataTruthGirl),
		),
	)

	DareBucketKeyboard = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("For a boy", CbDataDareBoy),
			tgbotapi.NewInlineKeyboardButtonData("For a girl", CbDataDareGirl),
		),
	)

	RespondKeyboard = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(emoji.CheckMarkButton.String()+" Done", CbDataDone),
			tgbotapi.NewInlineKeyboardButtonData(emoji.CrossMark.String()+" Decline", CbDataDecline),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(emoji.Cyclone.String()+" Change question", CbDataReroll),
		),
	)
)
