package model

import "time"

// Stage определяет, какой сценарий сейчас ведёт диалог с пользователем
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingAnswer
	StageAwaitingBroadcastText
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingAnswer:
		return "awaiting_answer"
	case StageAwaitingBroadcastText:
		return "awaiting_broadcast_text"
	default:
		return "idle"
	}
}

// ConversationState представляет текущее состояние диалога пользователя.
// QuestionIndex всегда равен len(Answers).
type ConversationState struct {
	UserID        int64     `json:"user_id"`
	Stage         Stage     `json:"stage"`
	QuestionIndex int       `json:"question_index"`
	Answers       []string  `json:"answers"`
	UpdatedAt     time.Time `json:"updated_at"`
}
