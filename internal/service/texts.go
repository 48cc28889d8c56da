package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ivanoskov/intake_bot/internal/model"
)

const (
	TextWelcome          = "Привет! Отправь заявку командой /apply"
	TextAdminPanel       = "Вы в админ-панели."
	TextAdminDenied      = "У вас нет прав доступа к админ-панели."
	TextCommandDenied    = "У вас нет прав для этой команды."
	TextMissingID        = "Пожалуйста, укажите ID заявки."
	TextIDNotNumber      = "ID заявки должен быть числом."
	TextNotFound         = "Нет доступной заявки с таким ID."
	TextSubmitted        = "Ваша заявка отправлена на рассмотрение. Ваш ID заявки: "
	TextBroadcastPrompt  = "Введите сообщение для рассылки."
	TextBroadcastDone    = "Рассылка завершена!"
	TextNoApplications   = "Нет нерассмотренных заявок."
	TextApplicationsHead = "Нерассмотренные заявки:\n\n"
	TextChannelsButton   = "Каналы Тимы"
	TextChannelsHead     = "Каналы Тимы:\n"
	TextStatisticsButton = "Статистика"
	TextBroadcastButton  = "Рассылка"
	TextQueueButton      = "Заявки"
)

// MaxMessageLength - ограничение Telegram на длину одного сообщения
const MaxMessageLength = 4096

func ChannelsButton() model.Button {
	return model.Button{Text: TextChannelsButton, Action: model.ActionShowChannels}
}

// AdminPanelButtons - кнопки админ-панели, по одной в ряд
func AdminPanelButtons() []model.Button {
	return []model.Button{
		{Text: TextStatisticsButton, Action: model.ActionShowStatistics},
		{Text: TextBroadcastButton, Action: model.ActionSendBroadcast},
		{Text: TextQueueButton, Action: model.ActionShowApplications},
	}
}

func FormatChannels(links []string) string {
	var sb strings.Builder
	sb.WriteString(TextChannelsHead)
	for _, link := range links {
		sb.WriteString(link)
		sb.WriteString("\n")
	}
	return sb.String()
}

func FormatStatistics(s model.Statistics) string {
	return fmt.Sprintf("Статистика проекта:\n"+
		"Проверенные заявки за день: %d\n"+
		"Проверенные заявки за неделю: %d\n"+
		"Проверенные заявки за месяц: %d\n"+
		"Проверенные заявки за все время: %d\n"+
		"Количество пользователей: %d",
		s.Daily, s.Weekly, s.Monthly, s.AllTime, s.Users)
}

// FormatApplications собирает очередь заявок в сообщения не длиннее MaxMessageLength.
// Заявка, которая сама не влезает в лимит, обрезается.
func FormatApplications(apps []model.Application) []string {
	if len(apps) == 0 {
		return []string{TextNoApplications}
	}

	var messages []string
	current := TextApplicationsHead
	for _, app := range apps {
		entry := fmt.Sprintf("Заявка #%d от %d:\n%s\n\n", app.ID, app.ApplicantID, app.Text)
		if len(current)+len(entry) > MaxMessageLength && current != "" && current != TextApplicationsHead {
			messages = append(messages, current)
			current = ""
		}
		if len(current)+len(entry) > MaxMessageLength {
			entry = truncate(entry, MaxMessageLength-len(current))
		}
		current += entry
	}
	if current != "" {
		messages = append(messages, current)
	}
	return messages
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// не режем посреди UTF-8 символа
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func renderApplication(questions, answers []string) string {
	lines := make([]string, 0, len(answers))
	for i, answer := range answers {
		lines = append(lines, fmt.Sprintf("%s: %s", questions[i], answer))
	}
	return strings.Join(lines, "\n")
}
