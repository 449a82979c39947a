package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrNameRequired           = errors.New("name is required")
	ErrInvalidEmail           = errors.New("email must look like name@domain.tld")
	ErrInvalidPhone           = errors.New("phone must contain between 7 and 20 digits")
	ErrInvalidAge             = errors.New("age must be a positive number")
	ErrInvalidSport           = errors.New("unknown sport")
	ErrAcknowledgementMissing = errors.New("acknowledgement must be accepted before submitting")

	// Ошибки конфликтов
	ErrProfileEmailConflict = errors.New("email address is already in use")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthSessionInvalid     = errors.New("session is missing or invalid")

	// Ошибки, специфичные для сущностей
	ErrProfileNotFound         = errors.New("profile not found")
	ErrKidNotFound             = errors.New("kid registration not found")
	ErrCoachSubmissionNotFound = errors.New("coach submission not found")
)
