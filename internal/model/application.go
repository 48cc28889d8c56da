package model

import "time"

// Application - полностью заполненная, ещё не рассмотренная заявка
type Application struct {
	ID            int       `json:"id"`
	ApplicantID   int64     `json:"applicant_id"`
	ApplicantName string    `json:"applicant_name"`
	Text          string    `json:"text"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// Verdict - решение проверяющего по заявке
type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictReject Verdict = "reject"
)
