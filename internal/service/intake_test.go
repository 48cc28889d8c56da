package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/ivanoskov/intake_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	applicantID int64 = 42
	reviewerID  int64 = 100
)

var submittedID = regexp.MustCompile(`Ваш ID заявки: (\d+)$`)

func applicationIDFrom(t *testing.T, text string) int {
	t.Helper()
	m := submittedID.FindStringSubmatch(text)
	require.Len(t, m, 2, "no application id in %q", text)
	id, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	return id
}

func TestIntake_CompletesAfterExactlyNAnswers(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("%d questions", n), func(t *testing.T) {
			questions := make([]string, n)
			for i := range questions {
				questions[i] = fmt.Sprintf("Q%d", i+1)
			}
			f := newFixture(t, questions, reviewerID)
			ctx := context.Background()

			require.NoError(t, f.intake.Start(ctx, user(applicantID)))

			for i := 0; i < n; i++ {
				assert.Equal(t, 0, f.registry.Len(), "application created before the last answer")
				state := f.convs.Get(applicantID)
				assert.Equal(t, model.StageAwaitingAnswer, state.Stage)
				assert.Equal(t, i, state.QuestionIndex)

				require.NoError(t, f.intake.Answer(ctx, user(applicantID), fmt.Sprintf("a%d", i+1)))
			}

			assert.Equal(t, model.StageIdle, f.convs.Get(applicantID).Stage)
			assert.Equal(t, 1, f.registry.Len())
			assert.Equal(t, 1, f.stats.Snapshot().AllTime)

			err := f.intake.Answer(ctx, user(applicantID), "extra")
			assert.ErrorIs(t, err, ErrNotAwaitingAnswer)
			assert.Equal(t, 1, f.registry.Len())
		})
	}
}

func TestIntake_TwoQuestionScenario(t *testing.T) {
	f := newFixture(t, []string{"Q1", "Q2"}, reviewerID)
	ctx := context.Background()
	applicant := model.Sender{UserID: applicantID, ChatID: applicantID, Name: "Ivan Petrov"}

	require.NoError(t, f.intake.Start(ctx, applicant))
	assert.Equal(t, "Q1", f.messenger.last(applicantID).Text)

	require.NoError(t, f.intake.Answer(ctx, applicant, "a1"))
	assert.Equal(t, "Q2", f.messenger.last(applicantID).Text)

	require.NoError(t, f.intake.Answer(ctx, applicant, "a2"))

	id := applicationIDFrom(t, f.messenger.last(applicantID).Text)
	assert.GreaterOrEqual(t, id, MinApplicationID)
	assert.LessOrEqual(t, id, MaxApplicationID)
	assert.Regexp(t, `^\d{4}$`, strconv.Itoa(id))

	notice := f.messenger.last(reviewerID).Text
	assert.Contains(t, notice, "Q1: a1")
	assert.Contains(t, notice, "Q2: a2")
	assert.Contains(t, notice, fmt.Sprintf("Новая заявка #%d от Ivan Petrov", id))

	app, ok := f.registry.Get(id)
	require.True(t, ok)
	assert.Equal(t, applicantID, app.ApplicantID)
	assert.Equal(t, "Q1: a1\nQ2: a2", app.Text)
	assert.False(t, app.SubmittedAt.IsZero())

	reviewer := user(reviewerID)
	require.NoError(t, f.moderation.Accept(ctx, reviewer, strconv.Itoa(id)))

	accepted := f.messenger.last(applicantID)
	assert.Equal(t, fmt.Sprintf("Ваша заявка #%d принята!", id), accepted.Text)
	assert.Equal(t, []model.Button{ChannelsButton()}, accepted.Buttons)

	err := f.moderation.Accept(ctx, reviewer, strconv.Itoa(id))
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Equal(t, TextNotFound, f.messenger.last(reviewerID).Text)
}

func TestIntake_StartRestartsFromFirstQuestion(t *testing.T) {
	f := newFixture(t, []string{"Q1", "Q2", "Q3"}, reviewerID)
	ctx := context.Background()

	require.NoError(t, f.intake.Start(ctx, user(applicantID)))
	require.NoError(t, f.intake.Answer(ctx, user(applicantID), "old"))
	require.NoError(t, f.intake.Start(ctx, user(applicantID)))

	state := f.convs.Get(applicantID)
	assert.Equal(t, model.StageAwaitingAnswer, state.Stage)
	assert.Equal(t, 0, state.QuestionIndex)
	assert.Empty(t, state.Answers)
	assert.Equal(t, "Q1", f.messenger.last(applicantID).Text)

	for _, a := range []string{"n1", "n2", "n3"} {
		require.NoError(t, f.intake.Answer(ctx, user(applicantID), a))
	}
	apps := f.registry.ListOpen()
	require.Len(t, apps, 1)
	assert.NotContains(t, apps[0].Text, "old")
}

func TestIntake_AcceptsEmptyAnswer(t *testing.T) {
	f := newFixture(t, []string{"Q1"}, reviewerID)
	ctx := context.Background()

	require.NoError(t, f.intake.Start(ctx, user(applicantID)))
	require.NoError(t, f.intake.Answer(ctx, user(applicantID), ""))

	apps := f.registry.ListOpen()
	require.Len(t, apps, 1)
	assert.Equal(t, "Q1: ", apps[0].Text)
}

func TestIntake_RemembersApplicant(t *testing.T) {
	f := newFixture(t, []string{"Q1"}, reviewerID)

	require.NoError(t, f.intake.Start(context.Background(), user(applicantID)))

	assert.Equal(t, []int64{applicantID}, f.users.All())
	assert.Equal(t, []int64{applicantID}, f.store.ids)
}

func TestIntake_ReviewerDeliveryFailureDoesNotAbortSubmission(t *testing.T) {
	const secondReviewer int64 = 101
	f := newFixture(t, []string{"Q1"}, reviewerID, secondReviewer)
	f.messenger.failFor[reviewerID] = errBlocked
	ctx := context.Background()

	require.NoError(t, f.intake.Start(ctx, user(applicantID)))
	require.NoError(t, f.intake.Answer(ctx, user(applicantID), "a1"))

	assert.Equal(t, 1, f.registry.Len())
	assert.Len(t, f.messenger.to(secondReviewer), 1)
	assert.True(t, strings.HasPrefix(f.messenger.last(applicantID).Text, TextSubmitted))
}

func TestIntake_ApplicantDeliveryFailureStillSubmits(t *testing.T) {
	f := newFixture(t, []string{"Q1"}, reviewerID)
	ctx := context.Background()

	require.NoError(t, f.intake.Start(ctx, user(applicantID)))
	f.messenger.failFor[applicantID] = errBlocked

	err := f.intake.Answer(ctx, user(applicantID), "a1")
	assert.ErrorIs(t, err, errBlocked)
	assert.Equal(t, 1, f.registry.Len())
	assert.Equal(t, model.StageIdle, f.convs.Get(applicantID).Stage)
}

func TestIntake_StartDiscardsPendingBroadcast(t *testing.T) {
	f := newFixture(t, []string{"Q1"}, reviewerID)
	ctx := context.Background()

	require.NoError(t, f.broadcast.Begin(ctx, user(reviewerID)))
	require.NoError(t, f.intake.Start(ctx, user(reviewerID)))

	assert.Equal(t, model.StageAwaitingAnswer, f.convs.Get(reviewerID).Stage)
	_, err := f.broadcast.Submit(ctx, user(reviewerID), "hello")
	assert.ErrorIs(t, err, ErrNotAwaitingBroadcast)
}
