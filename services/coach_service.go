package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/realtime"
	"github.com/whoznexx/sports-portal/repositories"
)

type CoachService interface {
	Submit(ctx context.Context, input CoachSubmissionInput) (*models.CoachSubmission, error)
}

type CoachSubmissionInput struct {
	Name            string `json:"name"`
	Age             int    `json:"age"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Sport           string `json:"sport"`
	BestTimes       string `json:"best_times"`
	Availability    string `json:"availability"`
	Background      string `json:"background"`
	Pitch           string `json:"pitch"`
	FinalThoughts   string `json:"final_thoughts"`
	Acknowledgement bool   `json:"acknowledgement"`
}

type coachService struct {
	submissionRepo repositories.CoachSubmissionRepository
	hub            *realtime.Hub
}

func NewCoachService(submissionRepo repositories.CoachSubmissionRepository, hub *realtime.Hub) CoachService {
	return &coachService{
		submissionRepo: submissionRepo,
		hub:            hub,
	}
}

// Submit валидирует заявку единым контрактом и только после этого пишет в БД.
// Невалидная заявка не оставляет следов в хранилище.
func (s *coachService) Submit(ctx context.Context, input CoachSubmissionInput) (*models.CoachSubmission, error) {
	if err := validateCoachSubmission(input); err != nil {
		return nil, err
	}

	submission := &models.CoachSubmission{
		Name:            strings.TrimSpace(input.Name),
		Age:             input.Age,
		Phone:           input.Phone,
		Email:           input.Email,
		Sport:           strings.ToLower(strings.TrimSpace(input.Sport)),
		BestTimes:       input.BestTimes,
		Availability:    input.Availability,
		Background:      input.Background,
		Pitch:           input.Pitch,
		FinalThoughts:   input.FinalThoughts,
		Acknowledgement: input.Acknowledgement,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create coach submission: %w", err)
	}

	// Рассылаем событие вставки подключённым админским панелям.
	if s.hub != nil {
		s.hub.BroadcastToRoom(realtime.RoomCoachSubmissions, realtime.Message{
			Type:    realtime.EventCoachSubmissionInserted,
			Payload: submission,
			RoomID:  realtime.RoomCoachSubmissions,
		})
	}

	return submission, nil
}

func validateCoachSubmission(input CoachSubmissionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.Age < 18 {
		return ErrInvalidAge
	}
	if !IsValidEmail(input.Email) {
		return ErrInvalidEmail
	}
	if !IsValidPhone(input.Phone) {
		return ErrInvalidPhone
	}
	if strings.TrimSpace(input.Sport) == "" ||
		strings.TrimSpace(input.BestTimes) == "" ||
		strings.TrimSpace(input.Availability) == "" ||
		strings.TrimSpace(input.Background) == "" ||
		strings.TrimSpace(input.Pitch) == "" {
		return ErrValidationFailed
	}
	if !input.Acknowledgement {
		return ErrAcknowledgementMissing
	}
	return nil
}
