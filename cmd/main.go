package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/innovedge/matchbot/internal/bot"
	"github.com/innovedge/matchbot/internal/bot/telegram"
	"github.com/innovedge/matchbot/internal/classifier/gemini"
	"github.com/innovedge/matchbot/internal/config"
	"github.com/innovedge/matchbot/internal/logger"
	"github.com/innovedge/matchbot/internal/model"
	"github.com/innovedge/matchbot/internal/repository/postgres"
	"github.com/innovedge/matchbot/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	reactionRepo := postgres.NewReactionRepository(db)
	matchRepo := postgres.NewMatchRepository(db)

	var classifier model.Classifier
	if cfg.Gemini.APIKey != "" {
		classifier, err = gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Fatal("failed to create gemini classifier", "error", err)
		}
	} else {
		logger.Info("gemini api key not set, classification disabled")
	}

	conversation := service.NewConversation(userRepo, taskRepo, classifier, logger)
	matching := service.NewMatching(reactionRepo, matchRepo, userRepo, taskRepo, logger)
	profile := service.NewProfile(userRepo, taskRepo, reactionRepo, logger)

	client := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.PollTimeout)
	dispatcher := bot.NewDispatcher(conversation, matching, profile, client, logger.With("component", "dispatcher"))

	logAppVersion()
	logger.Info("bot is running")

	if err := dispatcher.Run(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("dispatcher stopped", "error", err)
	}

	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
