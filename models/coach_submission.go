package models

import "time"

// CoachSubmission — заявка тренера. Не привязана к профилю: форма публичная.
type CoachSubmission struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Age             int       `json:"age"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Sport           string    `json:"sport"`
	BestTimes       string    `json:"best_times"`
	Availability    string    `json:"availability"`
	Background      string    `json:"background"`
	Pitch           string    `json:"pitch"`
	FinalThoughts   string    `json:"final_thoughts,omitempty"`
	Acknowledgement bool      `json:"acknowledgement"`
	CreatedAt       time.Time `json:"created_at"`
}
