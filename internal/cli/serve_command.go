package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yt-fetch-bot/internal/api"
	"yt-fetch-bot/internal/bot"
	"yt-fetch-bot/internal/config"
	"yt-fetch-bot/internal/orchestrator"
	"yt-fetch-bot/internal/registry"
	"yt-fetch-bot/internal/ytdlp"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides LISTEN_ADDR)")
	withBot := fs.Bool("bot", true, "run the chat adapter when BOT_TOKEN is set")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.ListenAddr = strings.TrimSpace(*addr)
	}
	logger := newLogger()

	if err := ytdlp.CheckDependencies(); err != nil {
		// Jobs will fail at execution time; starting the API is still
		// useful so the failure is observable.
		logger.Warn("dependency preflight", "err", err.Error())
	}

	reg := registry.New()
	orch := orchestrator.New(orchestrator.Options{
		Registry:      reg,
		Engine:        ytdlp.ExecClient{},
		Logger:        logger,
		DownloadsDir:  cfg.DownloadsDir,
		DeliveryLimit: cfg.DeliveryLimit(),
		Workers:       cfg.Workers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *withBot && strings.TrimSpace(cfg.BotToken) != "" {
		tg, chat, err := buildChatAdapter(cfg, reg, orch, logger)
		if err != nil {
			return err
		}
		orch.SetNotifier(chat.Notifier())

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates := tg.GetUpdatesChan(u)
		defer tg.StopReceivingUpdates()
		go chat.Run(ctx, updates)
		logger.Info("chat adapter started", "bot", tg.Self.UserName)
	}

	orch.Start(ctx)
	defer orch.Wait()

	server := &api.Server{
		Logger:         logger,
		Registry:       reg,
		Orch:           orch,
		StaticDir:      cfg.StaticDir,
		StreamInterval: cfg.StreamInterval(),
	}
	return server.Run(ctx, cfg.ListenAddr)
}

func runBot(args []string) error {
	fs := flag.NewFlagSet("bot", flag.ContinueOnError)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}
	logger := newLogger()

	if err := ytdlp.CheckDependencies(); err != nil {
		return err
	}

	reg := registry.New()
	orch := orchestrator.New(orchestrator.Options{
		Registry:      reg,
		Engine:        ytdlp.ExecClient{},
		Logger:        logger,
		DownloadsDir:  cfg.DownloadsDir,
		DeliveryLimit: cfg.DeliveryLimit(),
		Workers:       cfg.Workers,
	})

	tg, chat, err := buildChatAdapter(cfg, reg, orch, logger)
	if err != nil {
		return err
	}
	orch.SetNotifier(chat.Notifier())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch.Start(ctx)
	defer orch.Wait()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := tg.GetUpdatesChan(u)
	defer tg.StopReceivingUpdates()

	logger.Info("chat adapter started", "bot", tg.Self.UserName)
	chat.Run(ctx, updates)
	return nil
}

func buildChatAdapter(cfg config.Config, reg *registry.Registry, orch *orchestrator.Orchestrator, logger *slog.Logger) (*tgbotapi.BotAPI, *bot.Bot, error) {
	tg, err := newBotAPI(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	chat := bot.New(bot.Options{
		API:      tg,
		Registry: reg,
		Orch:     orch,
		Logger:   logger,
	})
	return tg, chat, nil
}

func newBotAPI(cfg config.Config) (*tgbotapi.BotAPI, error) {
	if endpoint := strings.TrimSpace(cfg.BotAPIURL); endpoint != "" {
		return tgbotapi.NewBotAPIWithAPIEndpoint(cfg.BotToken, strings.TrimRight(endpoint, "/")+"/bot%s/%s")
	}
	return tgbotapi.NewBotAPI(cfg.BotToken)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
