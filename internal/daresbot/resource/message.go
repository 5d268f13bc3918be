package resource

import "github.com/enescakir/emoji"

const (
	ProjectName    = "daresbot"
	ProjectVersion = "1.0.2"

	GithubURL    = "https://github.com/dareside-games/daresbot"
	BotFatherURL = "https://t.me/BotFather"
)

const Graffiti = `
     _                     _           _
  __| | __ _ _ __ ___  ___| |__   ___ | |_
 / _* |/ _* | '__/ _ \/ __| '_ \ / _ \| __|
| (_| | (_| | | |  __/\__ \ |_) | (_) | |_
 \__,_|\__,_|_|  \___||___/_.__/ \___/ \__|
`

const GreetingCLI = "%s %s\ntruth-or-dare game bot for group chats\n%s\n\n"

// command replies
var (
	TextHelpMsg = emoji.GameDie.String() + " *Truth or dare* for this chat\n\n" +
		"/join - enter the roster\n" +
		"/leave - leave the roster\n" +
		"/startgame - (moderator) start the rotation\n" +
		"/stopgame - (moderator) stop the game\n" +
		"/skip - (moderator) pass the current turn\n" +
		"/remove <id> - (moderator) remove a player\n" +
		"/leaderboard - top scores\n" +
		"/myid - your numeric id"

	TextYourIDMsg         = "Your id: %d"
	TextModeratorOnlyMsg  = "Only the moderator can do that"
	TextAlreadyJoinedMsg  = "You are already in the game"
	TextNotJoinedMsg      = "You are not in the game"
	TextNoPlayersMsg      = "Nobody joined yet, use /join"
	TextNotStartedMsg     = "The game is not running"
	TextRemoveUsageMsg    = "Usage: /remove 12345678"
	TextLeaderboardEmpty  = "No scores recorded yet"
	TextLeaderboardHeader = emoji.Trophy.String() + " *Leaderboard*\n\n"
	TextLeaderboardRow    = "%d. %s: %d\n"
)

// room notices
var (
	TextPlayerJoinedMsg = "%s joined the game"
	TextPlayerLeftMsg   = "%s left the game"
	TextGameStartedMsg  = emoji.Rocket.String() + " The game is on!"
	TextGameStoppedMsg  = emoji.ChequeredFlag.String() + " The game is stopped"
	TextGameHaltedMsg   = "No players left, the game is stopped"
	TextChooseMsg       = emoji.GameDie.String() + " %s, your turn!\nTruth or dare? Only you can pick."
	TextBucketMsg       = "Which set?"
	TextQuestionMsg     = emoji.Memo.String() + " %s\nCategory: %s\n\n%s\n\n" +
		emoji.Stopwatch.String() + " %d seconds to answer, rerolls left: %d"
	TextScoredMsg   = emoji.CheckMarkButton.String() + " %s scored %+d. Next player..."
	TextDeclinedMsg = emoji.CrossMark.String() + " %s declined, %+d. Next player..."
	TextTimeoutMsg  = emoji.Stopwatch.String() + " Time is up for %s, %+d. Next player..."
	TextSkippedMsg  = "%s was skipped by the moderator"
	TextRemovedMsg  = "Player %d removed from the game"
)

// actor-only notices
var (
	TextNotYourTurnMsg     = emoji.CrossMark.String() + " Not your turn, please wait"
	TextWrongPhaseMsg      = "That button is no longer active"
	TextRerollExhaustedMsg = emoji.Warning.String() + " You cannot change the question again"
	TextEmptyBankMsg       = "No questions in this category yet. The moderator has to fill the bank"
)
