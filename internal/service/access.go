package service

import "github.com/ivanoskov/intake_bot/internal/model"

// Access - статический список проверяющих и политика доступа к кнопкам админ-панели
type Access struct {
	reviewers []int64
	allowed   map[int64]struct{}
	require   map[model.Action]bool
}

// NewAccess принимает для каждой кнопки флаг "только для проверяющих".
// Кнопки, которых нет в require, доступны всем.
func NewAccess(reviewers []int64, require map[model.Action]bool) *Access {
	a := &Access{
		reviewers: append([]int64(nil), reviewers...),
		allowed:   make(map[int64]struct{}, len(reviewers)),
		require:   make(map[model.Action]bool, len(require)),
	}
	for _, id := range reviewers {
		a.allowed[id] = struct{}{}
	}
	for action, required := range require {
		a.require[action] = required
	}
	return a
}

func (a *Access) IsReviewer(userID int64) bool {
	_, ok := a.allowed[userID]
	return ok
}

// Reviewers возвращает проверяющих в порядке из конфигурации
func (a *Access) Reviewers() []int64 {
	return append([]int64(nil), a.reviewers...)
}

func (a *Access) Allowed(action model.Action, userID int64) bool {
	if !a.require[action] {
		return true
	}
	return a.IsReviewer(userID)
}
