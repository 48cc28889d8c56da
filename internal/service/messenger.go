package service

import (
	"context"

	"github.com/ivanoskov/intake_bot/internal/model"
)

// Messenger отправляет текстовые сообщения пользователям
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, buttons ...model.Button) error
}

// UserStore определяет интерфейс долговременного хранилища пользователей
type UserStore interface {
	InsertIfAbsent(ctx context.Context, userID int64) error
	ListAll(ctx context.Context) ([]int64, error)
}
