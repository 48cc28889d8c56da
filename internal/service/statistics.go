package service

import (
	"sync"
	"time"

	"github.com/ivanoskov/intake_bot/internal/model"
)

// UserCounter сообщает количество известных пользователей
type UserCounter interface {
	Count() int
}

// Statistics считает поданные заявки. Окна "день/неделя/месяц" грубые:
// сравниваются только даты, как в первой версии бота, поэтому это не скользящее окно.
type Statistics struct {
	users UserCounter
	now   func() time.Time

	mu      sync.Mutex
	daily   int
	weekly  int
	monthly int
	allTime int
}

func NewStatistics(users UserCounter) *Statistics {
	return &Statistics{
		users: users,
		now:   time.Now,
	}
}

func (s *Statistics) OnSubmission() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.allTime++

	if sameDate(now, now.Add(-24*time.Hour)) {
		s.daily = 1
	} else {
		s.daily++
	}

	if !dateOf(now).Before(dateOf(now.Add(-7*24*time.Hour))) {
		s.weekly++
	}

	if now.Month() == now.Add(-30*24*time.Hour).Month() {
		s.monthly++
	}
}

func (s *Statistics) Snapshot() model.Statistics {
	users := s.users.Count()

	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Statistics{
		Daily:   s.daily,
		Weekly:  s.weekly,
		Monthly: s.monthly,
		AllTime: s.allTime,
		Users:   users,
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	return dateOf(a).Equal(dateOf(b))
}
