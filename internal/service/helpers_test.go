package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ivanoskov/intake_bot/internal/model"
	"go.uber.org/zap/zaptest"
)

var errBlocked = errors.New("Forbidden: bot was blocked by the user")

type sentMessage struct {
	ChatID  int64
	Text    string
	Buttons []model.Button
}

// fakeMessenger запоминает доставленные сообщения; получатели из failFor всегда недоступны
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{failFor: make(map[int64]error)}
}

func (f *fakeMessenger) SendText(ctx context.Context, chatID int64, text string, buttons ...model.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

func (f *fakeMessenger) to(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessenger) last(chatID int64) sentMessage {
	msgs := f.to(chatID)
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

func (f *fakeMessenger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeStore struct {
	mu        sync.Mutex
	ids       []int64
	inserts   int
	insertErr error
	listErr   error
}

func (s *fakeStore) InsertIfAbsent(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, id := range s.ids {
		if id == userID {
			return nil
		}
	}
	s.ids = append(s.ids, userID)
	return nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]int64(nil), s.ids...), nil
}

type fixture struct {
	messenger  *fakeMessenger
	store      *fakeStore
	users      *UserDirectory
	access     *Access
	registry   *Registry
	stats      *Statistics
	convs      *Conversations
	intake     *Intake
	moderation *Moderation
	broadcast  *Broadcast
}

func newFixture(t *testing.T, questions []string, reviewers ...int64) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)

	f := &fixture{
		messenger: newFakeMessenger(),
		store:     &fakeStore{},
	}
	f.users = NewUserDirectory(f.store, log)
	f.access = NewAccess(reviewers, map[model.Action]bool{
		model.ActionShowStatistics:   true,
		model.ActionSendBroadcast:    true,
		model.ActionShowApplications: true,
	})
	f.registry = NewRegistry(false, log)
	f.stats = NewStatistics(f.users)
	f.convs = NewConversations()
	f.intake = NewIntake(questions, f.access, f.users, f.registry, f.stats, f.convs, f.messenger, log)
	f.moderation = NewModeration(f.access, f.registry, f.messenger, log)
	f.broadcast = NewBroadcast(f.access, f.users, f.convs, f.messenger, log)
	return f
}

func user(id int64) model.Sender {
	return model.Sender{UserID: id, ChatID: id, Name: fmt.Sprintf("User %d", id)}
}
