package service

import (
	"sync"
	"time"

	"github.com/ivanoskov/intake_bot/internal/model"
)

// Conversations - по одному слоту состояния на пользователя.
// Stage в слоте указывает, какой сценарий им владеет.
type Conversations struct {
	mu     sync.Mutex
	states map[int64]*model.ConversationState
	now    func() time.Time
}

func NewConversations() *Conversations {
	return &Conversations{
		states: make(map[int64]*model.ConversationState),
		now:    time.Now,
	}
}

// Get возвращает копию состояния; для незнакомого пользователя - Idle
func (c *Conversations) Get(userID int64) model.ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[userID]
	if !ok {
		return model.ConversationState{UserID: userID, Stage: model.StageIdle}
	}
	return clone(state)
}

// Update атомарно меняет состояние пользователя. Состояние Idle из карты удаляется.
// Возвращает предыдущее и новое состояния.
func (c *Conversations) Update(userID int64, fn func(*model.ConversationState)) (prev, next model.ConversationState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[userID]
	if !ok {
		state = &model.ConversationState{UserID: userID, Stage: model.StageIdle}
	}
	prev = clone(state)

	fn(state)
	state.UserID = userID
	state.UpdatedAt = c.now()

	if state.Stage == model.StageIdle {
		delete(c.states, userID)
	} else {
		c.states[userID] = state
	}
	return prev, clone(state)
}

func (c *Conversations) Reset(userID int64) {
	c.mu.Lock()
	delete(c.states, userID)
	c.mu.Unlock()
}

// Len - количество незавершённых диалогов
func (c *Conversations) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

func clone(s *model.ConversationState) model.ConversationState {
	out := *s
	if s.Answers != nil {
		out.Answers = append([]string(nil), s.Answers...)
	}
	return out
}
