package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/intake_bot/internal/charts"
	"github.com/ivanoskov/intake_bot/internal/metrics"
	"github.com/ivanoskov/intake_bot/internal/model"
	"github.com/ivanoskov/intake_bot/internal/service"
	"go.uber.org/zap"
)

// Deps - компоненты, между которыми бот распределяет входящие события
type Deps struct {
	Intake        *service.Intake
	Moderation    *service.Moderation
	Broadcast     *service.Broadcast
	Registry      *service.Registry
	Statistics    *service.Statistics
	Conversations *service.Conversations
	Access        *service.Access
	Charts        *charts.ChartGenerator
	ChannelLinks  []string
}

type Bot struct {
	api         API
	gateway     *Gateway
	deps        Deps
	pollTimeout int
	log         *zap.Logger
}

func NewBot(api API, gateway *Gateway, deps Deps, pollTimeout int, log *zap.Logger) *Bot {
	return &Bot{
		api:         api,
		gateway:     gateway,
		deps:        deps,
		pollTimeout: pollTimeout,
		log:         log,
	}
}

// Start запускает бота в режиме long polling. События обрабатываются по одному;
// ошибка или паника в обработчике не останавливает цикл.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started, polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(ctx context.Context, body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("failed to decode update: %w", err)
	}

	b.dispatch(ctx, update)
	return nil
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	log := b.log.With(zap.Int("update_id", update.UpdateID))
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling update", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	if err := b.handleUpdate(ctx, update); err != nil {
		if isUserError(err) {
			log.Warn("update rejected", zap.Error(err))
			return
		}
		log.Error("error handling update", zap.Error(err))
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil && update.Message.From != nil && update.Message.IsCommand():
		metrics.UpdatesHandled.WithLabelValues("command").Inc()
		return b.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		metrics.UpdatesHandled.WithLabelValues("callback").Inc()
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		metrics.UpdatesHandled.WithLabelValues("message").Inc()
		return b.handleMessage(ctx, update.Message)
	}
	return nil
}

func senderOf(message *tgbotapi.Message) model.Sender {
	return model.Sender{
		UserID: message.From.ID,
		ChatID: message.Chat.ID,
		Name:   fullName(message.From),
	}
}

func fullName(user *tgbotapi.User) string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

// isUserError - ожидаемые ошибки сценария, не сбои
func isUserError(err error) bool {
	return errors.Is(err, service.ErrAccessDenied) ||
		errors.Is(err, service.ErrNotAwaitingAnswer) ||
		errors.Is(err, service.ErrNotAwaitingBroadcast) ||
		errors.Is(err, service.ErrApplicationNotFound) ||
		errors.Is(err, service.ErrMissingApplicationID) ||
		errors.Is(err, service.ErrInvalidApplicationID)
}
