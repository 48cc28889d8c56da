package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ivanoskov/intake_bot/internal/metrics"
	"github.com/ivanoskov/intake_bot/internal/model"
	"go.uber.org/zap"
)

// Moderation - решения проверяющих по открытым заявкам
type Moderation struct {
	access    *Access
	registry  *Registry
	messenger Messenger
	log       *zap.Logger
}

func NewModeration(access *Access, registry *Registry, messenger Messenger, log *zap.Logger) *Moderation {
	return &Moderation{
		access:    access,
		registry:  registry,
		messenger: messenger,
		log:       log,
	}
}

func (m *Moderation) Accept(ctx context.Context, reviewer model.Sender, args string) error {
	return m.resolve(ctx, reviewer, args, model.VerdictAccept)
}

func (m *Moderation) Reject(ctx context.Context, reviewer model.Sender, args string) error {
	return m.resolve(ctx, reviewer, args, model.VerdictReject)
}

// resolve - конечный переход заявки. При любой ошибке реестр не меняется.
func (m *Moderation) resolve(ctx context.Context, reviewer model.Sender, args string, verdict model.Verdict) error {
	log := m.log.With(zap.Int64("reviewer_id", reviewer.UserID), zap.String("verdict", string(verdict)))

	if !m.access.IsReviewer(reviewer.UserID) {
		log.Warn("moderation command from non-reviewer")
		m.reply(ctx, log, reviewer, TextCommandDenied)
		return ErrAccessDenied
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		m.reply(ctx, log, reviewer, TextMissingID)
		return ErrMissingApplicationID
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		m.reply(ctx, log, reviewer, TextIDNotNumber)
		return fmt.Errorf("%w: %q", ErrInvalidApplicationID, fields[0])
	}

	app, ok := m.registry.Take(id)
	if !ok {
		m.reply(ctx, log, reviewer, TextNotFound)
		return fmt.Errorf("%w: %d", ErrApplicationNotFound, id)
	}
	log = log.With(zap.Int("application_id", id), zap.Int64("applicant_id", app.ApplicantID))

	var notice, ack string
	var buttons []model.Button
	switch verdict {
	case model.VerdictAccept:
		notice = fmt.Sprintf("Ваша заявка #%d принята!", id)
		ack = fmt.Sprintf("Вы приняли заявку #%d.", id)
		buttons = []model.Button{ChannelsButton()}
	default:
		notice = fmt.Sprintf("Ваша заявка #%d отклонена.", id)
		ack = fmt.Sprintf("Вы отклонили заявку #%d.", id)
	}

	if err := m.messenger.SendText(ctx, app.ApplicantID, notice, buttons...); err != nil {
		log.Error("failed to notify applicant", zap.Error(err))
	}
	m.reply(ctx, log, reviewer, ack)

	metrics.ApplicationsResolved.WithLabelValues(string(verdict)).Inc()
	log.Info("application resolved and removed")
	return nil
}

func (m *Moderation) reply(ctx context.Context, log *zap.Logger, to model.Sender, text string) {
	if err := m.messenger.SendText(ctx, to.ChatID, text); err != nil {
		log.Error("failed to reply to reviewer", zap.Error(err))
	}
}
