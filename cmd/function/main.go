package main

import (
	"context"
	"sync"

	"github.com/ivanoskov/intake_bot/internal/bot"
	"github.com/ivanoskov/intake_bot/internal/config"
	"github.com/ivanoskov/intake_bot/internal/logger"
)

// Request структура входящего запроса от API Gateway
type Request struct {
	Body string `json:"body"`
}

// Response структура ответа для API Gateway
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Бот собирается один раз на экземпляр функции: диалоги и открытые заявки
// живут, пока экземпляр остаётся тёплым.
var (
	once     sync.Once
	instance *bot.App
	setupErr error
)

func app(ctx context.Context) (*bot.App, error) {
	once.Do(func() {
		cfg, err := config.LoadConfig("")
		if err != nil {
			setupErr = err
			return
		}
		zl, err := logger.New(cfg.Logging.Level, "json")
		if err != nil {
			setupErr = err
			return
		}
		instance, setupErr = bot.Setup(ctx, cfg, zl)
	})
	return instance, setupErr
}

func Handler(ctx context.Context, request Request) (*Response, error) {
	a, err := app(ctx)
	if err != nil {
		return errorResponse(err)
	}

	// Обработка webhook-обновления
	if err := a.Bot.HandleWebhook(ctx, []byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Точка входа для локального тестирования
}
