package main

import (
	"context"
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
	if err := realMain(ctx); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context) error {
	config := daresbot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("processing the config: %w", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if config.BotToken == "" {
		return fmt.Errorf(
			"bot token not found, please visit %s to register your bot and get a token",
			resource.BotFatherURL,
		)
	}

	tg, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return fmt.Errorf("bot api: %w", err)
	}

	tg.Debug = config.Debug
	_, _ = fmt.Fprint(os.Stdout, "Authorization in telegram was successful: ", tg.Self.UserName, "\n")

	db, err := database.New(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database: %w", err)
	}
	defer db.Close(ctx)

	userCache, err := cachelru.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	bank, err := questions.Load(config.DataDir)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}

	if len(bank.Categories()) == 0 {
		logger.Warnf("question bank is empty, fill %s with <category>.txt files", config.DataDir)
	}

	scores, err := ledger.New(scoreDb.New(db))
	if err != nil {
		return fmt.Errorf("load score ledger: %w", err)
	}

	manager := daresbot.NewManager(tg, &config, userDb.New(db, userCache), stateDb.New(db), bank, scores)
	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	return nil
}
