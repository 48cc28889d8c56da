package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/intake_bot/internal/model"
)

// API - часть tgbotapi.BotAPI, которой пользуется бот
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Gateway отправляет сообщения через Telegram Bot API
type Gateway struct {
	api API
}

func NewGateway(api API) *Gateway {
	return &Gateway{api: api}
}

func (g *Gateway) SendText(ctx context.Context, chatID int64, text string, buttons ...model.Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = inlineKeyboard(buttons)
	}
	if _, err := g.api.Send(msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

func (g *Gateway) SendPhoto(ctx context.Context, chatID int64, name string, data []byte) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := g.api.Send(photo); err != nil {
		return fmt.Errorf("send photo to chat %d: %w", chatID, err)
	}
	return nil
}

// Acknowledge убирает индикатор загрузки с нажатой кнопки
func (g *Gateway) Acknowledge(ctx context.Context, callbackID string) error {
	if _, err := g.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}
