package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/intake_bot/internal/charts"
	"github.com/ivanoskov/intake_bot/internal/config"
	"github.com/ivanoskov/intake_bot/internal/model"
	"github.com/ivanoskov/intake_bot/internal/repository"
	"github.com/ivanoskov/intake_bot/internal/service"
	"go.uber.org/zap"
)

// App - собранный бот вместе с ресурсами, которые нужно закрыть при остановке
type App struct {
	Bot    *Bot
	Digest *service.Digest
	store  repository.UserStore
}

// Setup подключается к Telegram и хранилищу и загружает пользователей
// до того, как бот начнёт принимать события.
func Setup(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	api.Debug = cfg.Telegram.Debug
	log.Info("authorized in telegram", zap.String("username", api.Self.UserName))

	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	app, err := Assemble(ctx, api, store, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}
	return app, nil
}

// Assemble собирает компоненты поверх готовых API и хранилища
func Assemble(ctx context.Context, api API, store repository.UserStore, cfg *config.Config, log *zap.Logger) (*App, error) {
	users := service.NewUserDirectory(store, log.Named("users"))
	if err := users.Load(ctx); err != nil {
		return nil, err
	}

	gateway := NewGateway(api)
	access := service.NewAccess(cfg.Reviewers.IDs, map[model.Action]bool{
		model.ActionShowStatistics:   cfg.Reviewers.Require.ShowStatistics,
		model.ActionSendBroadcast:    cfg.Reviewers.Require.SendBroadcast,
		model.ActionShowApplications: cfg.Reviewers.Require.ShowApplications,
	})
	registry := service.NewRegistry(cfg.Registry.AllowIDOverwrite, log.Named("registry"))
	stats := service.NewStatistics(users)
	convs := service.NewConversations()

	deps := Deps{
		Intake:        service.NewIntake(cfg.Intake.Questions, access, users, registry, stats, convs, gateway, log.Named("intake")),
		Moderation:    service.NewModeration(access, registry, gateway, log.Named("moderation")),
		Broadcast:     service.NewBroadcast(access, users, convs, gateway, log.Named("broadcast")),
		Registry:      registry,
		Statistics:    stats,
		Conversations: convs,
		Access:        access,
		Charts:        charts.NewChartGenerator(),
		ChannelLinks:  cfg.Intake.ChannelLinks,
	}

	app := &App{
		Bot:   NewBot(api, gateway, deps, cfg.Telegram.PollTimeout, log.Named("bot")),
		store: store,
	}

	if cfg.Statistics.DigestSchedule != "" {
		digest, err := service.NewDigest(cfg.Statistics.DigestSchedule, stats, access, gateway, log.Named("digest"))
		if err != nil {
			return nil, err
		}
		app.Digest = digest
	}
	return app, nil
}

func (a *App) Close() error {
	if a.Digest != nil {
		a.Digest.Stop()
	}
	return a.store.Close()
}
