package daresbot

import (
	"time"

	"github.com/dareside-games/daresbot/internal/database"
)

type Config struct {
	// Username of the moderator account
	Admin string `envconfig:"DARES_ADMIN_USERNAME"`

	// Numeric id of the moderator account, checked in addition to the
	// username
	AdminID int64 `envconfig:"DARES_ADMIN_ID"`

	// Logging all requests and responses from telegram
	Debug bool `envconfig:"DARES_DEBUG" default:"false"`

	// Telegram bot token
	BotToken string `envconfig:"DARES_BOT_TOKEN"`

	// Directory with the question files, one <category>.txt per category
	DataDir string `envconfig:"DARES_DATA_DIR" default:"data"`

	// Number of items in the user read cache
	CacheSize int `envconfig:"DARES_CACHE_SIZE" default:"1024"`

	TgBotPollTimeout time.Duration `envconfig:"DARES_TG_BOT_POLL_TIMEOUT" default:"60s"`

	// How long the current player gets to pick a category / to respond
	ChoiceTimeout   time.Duration `envconfig:"DARES_CHOICE_TIMEOUT" default:"90s"`
	ResponseTimeout time.Duration `envconfig:"DARES_RESPONSE_TIMEOUT" default:"90s"`

	// Prompt replacements allowed per turn
	MaxRerolls int `envconfig:"DARES_MAX_REROLLS" default:"2"`

	// Score deltas. Dare pays more than truth; decline and timeout cost.
	TruthPoints    int `envconfig:"DARES_TRUTH_POINTS" default:"1"`
	DarePoints     int `envconfig:"DARES_DARE_POINTS" default:"2"`
	DeclinePenalty int `envconfig:"DARES_DECLINE_PENALTY" default:"-1"`
	TimeoutPenalty int `envconfig:"DARES_TIMEOUT_PENALTY" default:"-1"`

	LeaderboardSize int `envconfig:"DARES_LEADERBOARD_SIZE" default:"10"`

	Db database.Config
}
