package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ivanoskov/intake_bot/internal/metrics"
	"github.com/ivanoskov/intake_bot/internal/model"
	"go.uber.org/zap"
)

// Broadcast рассылает одно сообщение всем известным пользователям
type Broadcast struct {
	access    *Access
	users     *UserDirectory
	convs     *Conversations
	messenger Messenger
	log       *zap.Logger
}

func NewBroadcast(access *Access, users *UserDirectory, convs *Conversations, messenger Messenger, log *zap.Logger) *Broadcast {
	return &Broadcast{
		access:    access,
		users:     users,
		convs:     convs,
		messenger: messenger,
		log:       log,
	}
}

// Begin переводит проверяющего в ожидание текста рассылки
func (b *Broadcast) Begin(ctx context.Context, reviewer model.Sender) error {
	log := b.log.With(zap.Int64("reviewer_id", reviewer.UserID))

	if !b.access.Allowed(model.ActionSendBroadcast, reviewer.UserID) {
		log.Warn("broadcast requested by non-reviewer")
		if err := b.messenger.SendText(ctx, reviewer.ChatID, TextCommandDenied); err != nil {
			log.Error("failed to reply", zap.Error(err))
		}
		return ErrAccessDenied
	}

	prev, _ := b.convs.Update(reviewer.UserID, func(st *model.ConversationState) {
		*st = model.ConversationState{Stage: model.StageAwaitingBroadcastText}
	})
	warnDiscarded(log, prev, model.StageAwaitingBroadcastText)

	if err := b.messenger.SendText(ctx, reviewer.ChatID, TextBroadcastPrompt); err != nil {
		return fmt.Errorf("failed to prompt for broadcast text: %w", err)
	}
	return nil
}

// Submit отправляет text каждому пользователю по очереди. Ошибка доставки одному
// получателю логируется и не прерывает рассылку остальным.
func (b *Broadcast) Submit(ctx context.Context, reviewer model.Sender, text string) (model.BroadcastReport, error) {
	var pending bool
	b.convs.Update(reviewer.UserID, func(st *model.ConversationState) {
		if st.Stage == model.StageAwaitingBroadcastText {
			pending = true
			*st = model.ConversationState{Stage: model.StageIdle}
		}
	})
	if !pending {
		return model.BroadcastReport{}, ErrNotAwaitingBroadcast
	}

	recipients := b.users.All()
	report := model.BroadcastReport{
		ID:         uuid.New().String(),
		Recipients: len(recipients),
	}
	log := b.log.With(zap.Int64("reviewer_id", reviewer.UserID), zap.String("broadcast_id", report.ID))
	log.Info("broadcast started", zap.Int("recipients", report.Recipients))

	for _, userID := range recipients {
		if err := b.messenger.SendText(ctx, userID, text); err != nil {
			report.Failed++
			metrics.BroadcastMessages.WithLabelValues("failed").Inc()
			log.Error("failed to deliver broadcast", zap.Int64("user_id", userID), zap.Error(err))
			continue
		}
		report.Delivered++
		metrics.BroadcastMessages.WithLabelValues("delivered").Inc()
	}

	log.Info("broadcast finished", zap.Int("delivered", report.Delivered), zap.Int("failed", report.Failed))

	done := fmt.Sprintf("%s\nДоставлено: %d, не доставлено: %d", TextBroadcastDone, report.Delivered, report.Failed)
	if err := b.messenger.SendText(ctx, reviewer.ChatID, done); err != nil {
		return report, fmt.Errorf("failed to report broadcast completion: %w", err)
	}
	return report, nil
}
