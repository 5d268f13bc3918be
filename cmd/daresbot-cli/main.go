package main

import (
	"fmt"
	"os"

	"github.com/dareside-games/daresbot/internal/cache/cachelru"
	"github.com/dareside-games/daresbot/internal/daresbot"
	"github.com/dareside-games/daresbot/internal/daresbot/ledger"
	"github.com/dareside-games/daresbot/internal/daresbot/resource"
	"github.com/dareside-games/daresbot/internal/database"
	stateDb "github.com/dareside-games/daresbot/internal/database/gamestate/database"
	scoreDb "github.com/dareside-games/daresbot/internal/database/score/database"
	userDb "github.com/dareside-games/daresbot/internal/database/user/database"
	"github.com/dareside-games/daresbot/internal/logging"
	"github.com/dareside-games/daresbot/internal/questions"
	"github.com/dareside-games/daresbot/internal/shutdown"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, resource.Graffiti)
	_, _ = fmt.Fprintf(os.Stdout, resource.GreetingCLI, resource.ProjectName, resource.ProjectVersion, resource.GithubURL)

	ctx, done := shutdown.New()
	defer done()

	logger := logging.FromContext(ctx)

	config := daresbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	logger = logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if config.BotToken == "" {
		var token string
		fmt.Println("Enter your bot token:")
		for {
			if _, err := fmt.Scanf("%s\n", &token); err != nil {
				if err.Error() == "unexpected newline" {
					continue
				}
				logger.Fatalf("read token: %v", err)
			}
			break
		}
		config.BotToken = token
	}

	if config.BotToken == "" {
		logger.Fatalf(
			"bot token not found, please visit %s to register your bot and get a token",
			resource.BotFatherURL,
		)
	}

	tg, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		logger.Fatalf("bot api: %v", err)
	}

	tg.Debug = config.Debug
	_, _ = fmt.Fprint(os.Stdout, "Authorization in telegram was successful: ", tg.Self.UserName, "\n")

	db, err := database.New(ctx, &config.Db)
	if err != nil {
		logger.Fatalf("new database: %v", err)
	}
	defer db.Close(ctx)

	userCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		logger.Fatalf("can not create lru cache: %v", err)
	}

	bank, err := questions.Load(config.DataDir)
	if err != nil {
		logger.Fatalf("load question bank: %v", err)
	}

	scores, err := ledger.New(scoreDb.New(db))
	if err != nil {
		logger.Fatalf("load score ledger: %v", err)
	}

	manager := daresbot.NewManager(tg, &config, userDb.New(db, userCache), stateDb.New(db), bank, scores)
	if err := manager.Run(ctx); err != nil {
		logger.Fatalf("run: %v", err)
	}
}
