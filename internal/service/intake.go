package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ivanoskov/intake_bot/internal/metrics"
	"github.com/ivanoskov/intake_bot/internal/model"
	"go.uber.org/zap"
)

// Intake ведёт пользователя по вопросам анкеты и по последнему ответу подаёт заявку
type Intake struct {
	questions []string
	access    *Access
	users     *UserDirectory
	registry  *Registry
	stats     *Statistics
	convs     *Conversations
	messenger Messenger
	log       *zap.Logger
}

func NewIntake(
	questions []string,
	access *Access,
	users *UserDirectory,
	registry *Registry,
	stats *Statistics,
	convs *Conversations,
	messenger Messenger,
	log *zap.Logger,
) *Intake {
	return &Intake{
		questions: append([]string(nil), questions...),
		access:    access,
		users:     users,
		registry:  registry,
		stats:     stats,
		convs:     convs,
		messenger: messenger,
		log:       log,
	}
}

// Start начинает анкету заново, даже если пользователь уже отвечает на вопросы
func (s *Intake) Start(ctx context.Context, sender model.Sender) error {
	log := s.log.With(zap.Int64("user_id", sender.UserID))
	log.Info("intake started")
	metrics.IntakeStarted.Inc()

	s.users.Remember(ctx, sender.UserID)

	if len(s.questions) == 0 {
		prev, _ := s.convs.Update(sender.UserID, func(st *model.ConversationState) {
			*st = model.ConversationState{Stage: model.StageIdle}
		})
		warnDiscarded(log, prev, model.StageAwaitingAnswer)
		_, err := s.finalize(ctx, sender, nil)
		return err
	}

	prev, _ := s.convs.Update(sender.UserID, func(st *model.ConversationState) {
		*st = model.ConversationState{
			Stage:   model.StageAwaitingAnswer,
			Answers: []string{},
		}
	})
	warnDiscarded(log, prev, model.StageAwaitingAnswer)

	return s.ask(ctx, sender, 0)
}

// Answer принимает ответ как есть, без проверок. На последнем ответе подаёт заявку.
func (s *Intake) Answer(ctx context.Context, sender model.Sender, text string) error {
	var (
		accepted bool
		complete bool
		answers  []string
		next     int
	)

	s.convs.Update(sender.UserID, func(st *model.ConversationState) {
		if st.Stage != model.StageAwaitingAnswer {
			return
		}
		accepted = true
		st.Answers = append(st.Answers, text)
		st.QuestionIndex++
		next = st.QuestionIndex

		if st.QuestionIndex >= len(s.questions) {
			complete = true
			answers = st.Answers
			*st = model.ConversationState{Stage: model.StageIdle}
		}
	})

	if !accepted {
		return ErrNotAwaitingAnswer
	}

	s.log.Debug("answer received",
		zap.Int64("user_id", sender.UserID),
		zap.Int("question_index", next-1))

	if !complete {
		return s.ask(ctx, sender, next)
	}

	_, err := s.finalize(ctx, sender, answers)
	return err
}

func (s *Intake) ask(ctx context.Context, sender model.Sender, index int) error {
	if err := s.messenger.SendText(ctx, sender.ChatID, s.questions[index]); err != nil {
		return fmt.Errorf("failed to send question %d: %w", index, err)
	}
	return nil
}

func (s *Intake) finalize(ctx context.Context, sender model.Sender, answers []string) (model.Application, error) {
	text := renderApplication(s.questions, answers)
	app := s.registry.Create(sender.UserID, sender.Name, text)

	log := s.log.With(zap.Int64("user_id", sender.UserID), zap.Int("application_id", app.ID))

	notice := fmt.Sprintf("Новая заявка #%d от %s:\n\n%s", app.ID, sender.Name, text)
	for _, reviewerID := range s.access.Reviewers() {
		if err := s.messenger.SendText(ctx, reviewerID, notice); err != nil {
			log.Error("failed to notify reviewer", zap.Int64("reviewer_id", reviewerID), zap.Error(err))
		}
	}

	s.stats.OnSubmission()
	metrics.ApplicationsSubmitted.Inc()
	log.Info("application submitted")

	if err := s.messenger.SendText(ctx, sender.ChatID, TextSubmitted+strconv.Itoa(app.ID)); err != nil {
		return app, fmt.Errorf("failed to confirm application %d: %w", app.ID, err)
	}
	return app, nil
}

// warnDiscarded логирует, если новый сценарий вытеснил другой незавершённый
func warnDiscarded(log *zap.Logger, prev model.ConversationState, owner model.Stage) {
	if prev.Stage != model.StageIdle && prev.Stage != owner {
		log.Warn("discarding unfinished conversation", zap.Stringer("stage", prev.Stage))
	}
}
