package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	SignUp(ctx context.Context, input SignUpInput) (*models.Profile, string, error)
	SignIn(ctx context.Context, input SignInInput) (*models.Profile, error)
	GetProfile(ctx context.Context, id int) (*models.Profile, error)
	ConfirmEmail(ctx context.Context, token string) error
	GeneratePasswordResetToken(ctx context.Context, email string) (string, error)
	ResetPasswordByToken(ctx context.Context, token string, newPassword string) error
}

type SignUpInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string
	Password string
}

type authService struct {
	profileRepo repositories.ProfileRepository
}

func NewAuthService(profileRepo repositories.ProfileRepository) AuthService {
	return &authService{
		profileRepo: profileRepo,
	}
}

func (s *authService) SignUp(ctx context.Context, input SignUpInput) (*models.Profile, string, error) {
	if !IsValidEmail(input.Email) {
		return nil, "", ErrInvalidEmail
	}
	if len(input.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}
	if input.Phone != "" && !IsValidPhone(input.Phone) {
		return nil, "", ErrInvalidPhone
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	confirmationToken := generateRandomToken(32)

	profile := &models.Profile{
		Name:                   input.Name,
		Phone:                  input.Phone,
		Email:                  input.Email,
		PasswordHash:           string(hashedPassword),
		Role:                   models.RoleMember,
		EmailConfirmed:         false,
		EmailConfirmationToken: &confirmationToken,
	}

	err = s.profileRepo.Create(ctx, profile)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileEmailConflict) {
			return nil, "", ErrProfileEmailConflict
		}
		return nil, "", fmt.Errorf("ошибка создания профиля: %w", err)
	}

	profile.PasswordHash = ""
	return profile, confirmationToken, nil
}

func (s *authService) SignIn(ctx context.Context, input SignInInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find profile by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	profile.PasswordHash = ""

	return profile, nil
}

// GetProfile возвращает профиль по id сессии. Request Gate различает
// ErrProfileNotFound (сессия мертва) и транспортные ошибки (fail-open).
func (s *authService) GetProfile(ctx context.Context, id int) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	profile.PasswordHash = ""
	return profile, nil
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) error {
	profile, err := s.profileRepo.GetByConfirmationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired confirmation token: %w", err)
	}
	if profile.EmailConfirmed {
		return fmt.Errorf("email already confirmed")
	}
	if err := s.profileRepo.ConfirmEmail(ctx, profile.ID); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	return nil
}

func (s *authService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, зарегистрирован ли email
		return "", nil
	}
	resetToken := generateRandomToken(32)
	err = s.profileRepo.SetPasswordResetToken(ctx, profile.ID, resetToken, time.Now().Add(1*time.Hour))
	if err != nil {
		return "", err
	}
	return resetToken, nil
}

func (s *authService) ResetPasswordByToken(ctx context.Context, token string, newPassword string) error {
	profile, err := s.profileRepo.GetByPasswordResetToken(ctx, token)
	if err != nil {
		return errors.New("invalid or expired token")
	}
	if profile.PasswordResetExpiresAt == nil || profile.PasswordResetExpiresAt.Before(time.Now()) {
		return errors.New("token expired")
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	profile.PasswordHash = string(hashedPassword)
	profile.PasswordResetToken = nil
	profile.PasswordResetExpiresAt = nil
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("ошибка обновления профиля: %w", err)
	}
	return nil
}

func generateRandomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	randomBytes := make([]byte, length)
	_, err := rand.Read(randomBytes)
	if err != nil {
		for i := range b {
			b[i] = charset[int(time.Now().UnixNano())%len(charset)]
		}
		return string(b)
	}
	for i, rb := range randomBytes {
		b[i] = charset[int(rb)%len(charset)]
	}
	return string(b)
}
