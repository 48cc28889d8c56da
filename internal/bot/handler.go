package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/intake_bot/internal/model"
	"github.com/ivanoskov/intake_bot/internal/service"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	sender := senderOf(message)

	switch message.Command() {
	case "start":
		return b.gateway.SendText(ctx, sender.ChatID, service.TextWelcome)
	case "apply":
		return b.deps.Intake.Start(ctx, sender)
	case "admin":
		return b.handleAdmin(ctx, sender)
	case "accept":
		return b.deps.Moderation.Accept(ctx, sender, message.CommandArguments())
	case "reject":
		return b.deps.Moderation.Reject(ctx, sender, message.CommandArguments())
	default:
		b.log.Debug("unknown command", zap.String("command", message.Command()), zap.Int64("user_id", sender.UserID))
	}

	return nil
}

func (b *Bot) handleAdmin(ctx context.Context, sender model.Sender) error {
	if !b.deps.Access.IsReviewer(sender.UserID) {
		return b.gateway.SendText(ctx, sender.ChatID, service.TextAdminDenied)
	}
	return b.gateway.SendText(ctx, sender.ChatID, service.TextAdminPanel, service.AdminPanelButtons()...)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Отвечаем на callback, чтобы убрать loading indicator
	defer func() {
		if err := b.gateway.Acknowledge(ctx, callback.ID); err != nil {
			b.log.Warn("failed to acknowledge callback", zap.Error(err))
		}
	}()

	// ответы на кнопки уходят в личный чат нажавшего
	sender := model.Sender{
		UserID: callback.From.ID,
		ChatID: callback.From.ID,
		Name:   fullName(callback.From),
	}

	switch model.Action(callback.Data) {
	case model.ActionShowChannels:
		return b.gateway.SendText(ctx, sender.ChatID, service.FormatChannels(b.deps.ChannelLinks))
	case model.ActionShowStatistics:
		return b.handleStatistics(ctx, sender)
	case model.ActionSendBroadcast:
		return b.deps.Broadcast.Begin(ctx, sender)
	case model.ActionShowApplications:
		return b.handleApplications(ctx, sender)
	default:
		b.log.Debug("unknown callback", zap.String("data", callback.Data), zap.Int64("user_id", sender.UserID))
	}

	return nil
}

func (b *Bot) handleStatistics(ctx context.Context, sender model.Sender) error {
	if !b.deps.Access.Allowed(model.ActionShowStatistics, sender.UserID) {
		return b.deny(ctx, sender)
	}

	stats := b.deps.Statistics.Snapshot()
	if err := b.gateway.SendText(ctx, sender.ChatID, service.FormatStatistics(stats)); err != nil {
		return err
	}

	png, err := b.deps.Charts.GenerateStatisticsChart(stats)
	if err != nil {
		b.log.Error("failed to render statistics chart", zap.Error(err))
		return nil
	}
	if png == nil {
		return nil
	}
	return b.gateway.SendPhoto(ctx, sender.ChatID, "statistics.png", png)
}

func (b *Bot) handleApplications(ctx context.Context, sender model.Sender) error {
	if !b.deps.Access.Allowed(model.ActionShowApplications, sender.UserID) {
		return b.deny(ctx, sender)
	}

	for _, text := range service.FormatApplications(b.deps.Registry.ListOpen()) {
		if err := b.gateway.SendText(ctx, sender.ChatID, text); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) deny(ctx context.Context, sender model.Sender) error {
	if err := b.gateway.SendText(ctx, sender.ChatID, service.TextCommandDenied); err != nil {
		return err
	}
	return fmt.Errorf("user %d: %w", sender.UserID, service.ErrAccessDenied)
}

// handleMessage направляет свободный текст в сценарий, которым сейчас занят отправитель
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.Text == "" {
		return nil
	}
	sender := senderOf(message)

	switch b.deps.Conversations.Get(sender.UserID).Stage {
	case model.StageAwaitingAnswer:
		return b.deps.Intake.Answer(ctx, sender, message.Text)
	case model.StageAwaitingBroadcastText:
		_, err := b.deps.Broadcast.Submit(ctx, sender, message.Text)
		return err
	default:
		b.log.Debug("ignoring text outside of any conversation", zap.Int64("user_id", sender.UserID))
	}

	return nil
}
