package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/intake_bot/internal/model"
)

// inlineKeyboard кладёт каждую кнопку в отдельный ряд
func inlineKeyboard(buttons []model.Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, button := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(button.Text, string(button.Action)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
