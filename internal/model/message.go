package model

// Sender - автор входящего события
type Sender struct {
	UserID int64
	ChatID int64
	Name   string
}

// Action - идентификатор кнопки
type Action string

const (
	ActionShowChannels     Action = "show_channels"
	ActionShowStatistics   Action = "show_statistics"
	ActionSendBroadcast    Action = "send_broadcast"
	ActionShowApplications Action = "show_applications"
)

// Button - кнопка под сообщением, не привязанная к конкретному мессенджеру
type Button struct {
	Text   string
	Action Action
}
