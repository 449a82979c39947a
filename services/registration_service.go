package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/repositories"
)

type RegistrationService interface {
	RegisterKid(ctx context.Context, parentID int, input KidInput) (*models.Kid, error)
	ListOwnKids(ctx context.Context, parentID int) ([]models.Kid, error)
}

type KidInput struct {
	Name  string       `json:"name"`
	Age   int          `json:"age"`
	Sport models.Sport `json:"sport"`

	Gender                string `json:"gender"`
	School                string `json:"school"`
	Grade                 string `json:"grade"`
	ExperienceLevel       string `json:"experience_level"`
	ParentPhone           string `json:"parent_phone"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	ShirtSize             string `json:"shirt_size"`
	MedicalNotes          string `json:"medical_notes"`
	SpecialRequests       string `json:"special_requests"`

	// Дозаполнение контактов профиля родителя, если они ещё пустые.
	ParentName string `json:"parent_name"`
}

type registrationService struct {
	kidRepo     repositories.KidRepository
	profileRepo repositories.ProfileRepository
}

func NewRegistrationService(kidRepo repositories.KidRepository, profileRepo repositories.ProfileRepository) RegistrationService {
	return &registrationService{
		kidRepo:     kidRepo,
		profileRepo: profileRepo,
	}
}

// RegisterKid создаёт ровно одну заявку, принадлежащую профилю parentID.
// Дубликаты (тот же ребёнок, та же секция) допускаются: повторная запись
// на новый сезон — легальный сценарий.
func (s *registrationService) RegisterKid(ctx context.Context, parentID int, input KidInput) (*models.Kid, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.Age <= 0 || input.Age > 19 {
		return nil, ErrInvalidAge
	}
	if !input.Sport.Valid() {
		return nil, ErrInvalidSport
	}
	if input.ParentPhone != "" && !IsValidPhone(input.ParentPhone) {
		return nil, ErrInvalidPhone
	}
	if input.EmergencyContactPhone != "" && !IsValidPhone(input.EmergencyContactPhone) {
		return nil, ErrInvalidPhone
	}

	profile, err := s.profileRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load parent profile: %w", err)
	}

	kid := &models.Kid{
		ParentID:              profile.ID,
		Name:                  strings.TrimSpace(input.Name),
		Age:                   input.Age,
		Sport:                 input.Sport,
		Gender:                input.Gender,
		School:                input.School,
		Grade:                 input.Grade,
		ExperienceLevel:       input.ExperienceLevel,
		ParentPhone:           input.ParentPhone,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
		ShirtSize:             input.ShirtSize,
		MedicalNotes:          input.MedicalNotes,
		SpecialRequests:       input.SpecialRequests,
	}

	if err := s.kidRepo.Create(ctx, kid); err != nil {
		if errors.Is(err, repositories.ErrKidParentInvalid) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to create kid registration: %w", err)
	}

	// Дозаполняем контакты профиля, если форма их принесла. Ошибка здесь не
	// отменяет уже созданную заявку, только логируется на уровне выше.
	name := profile.Name
	phone := profile.Phone
	if name == "" && input.ParentName != "" {
		name = input.ParentName
	}
	if phone == "" && input.ParentPhone != "" {
		phone = input.ParentPhone
	}
	if name != profile.Name || phone != profile.Phone {
		if err := s.profileRepo.UpdateContact(ctx, profile.ID, name, phone); err != nil {
			return kid, fmt.Errorf("registration saved, but profile contact backfill failed: %w", err)
		}
	}

	return kid, nil
}

func (s *registrationService) ListOwnKids(ctx context.Context, parentID int) ([]models.Kid, error) {
	return s.kidRepo.ListByParentID(ctx, parentID)
}
