package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/whoznexx/sports-portal/models"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileEmailConflict = errors.New("profile email conflict")
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id int) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByConfirmationToken(ctx context.Context, token string) (*models.Profile, error)
	GetByPasswordResetToken(ctx context.Context, token string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	ConfirmEmail(ctx context.Context, id int) error
	SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error
	UpdateContact(ctx context.Context, id int, name, phone string) error
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

const profileColumns = `id, name, email, phone, role, password_hash, email_confirmed,
		email_confirmation_token, password_reset_token, password_reset_expires_at, created_at`

func (r *postgresProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (name, email, phone, role, password_hash, email_confirmation_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.Role,
		profile.PasswordHash,
		profile.EmailConfirmationToken,
	).Scan(&profile.ID, &profile.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "profiles_email_key" {
				return ErrProfileEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresProfileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanProfile(ctx, query, id)
}

func (r *postgresProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return r.scanProfile(ctx, query, email)
}

func (r *postgresProfileRepository) GetByConfirmationToken(ctx context.Context, token string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email_confirmation_token = $1`
	return r.scanProfile(ctx, query, token)
}

func (r *postgresProfileRepository) GetByPasswordResetToken(ctx context.Context, token string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE password_reset_token = $1`
	return r.scanProfile(ctx, query, token)
}

func (r *postgresProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles SET
			name = $1,
			email = $2,
			phone = $3,
			role = $4,
			password_hash = $5,
			email_confirmed = $6,
			email_confirmation_token = $7,
			password_reset_token = $8,
			password_reset_expires_at = $9
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.Role,
		profile.PasswordHash,
		profile.EmailConfirmed,
		profile.EmailConfirmationToken,
		profile.PasswordResetToken,
		profile.PasswordResetExpiresAt,
		profile.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "profiles_email_key" {
				return ErrProfileEmailConflict
			}
		}
		return err
	}

	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) ConfirmEmail(ctx context.Context, id int) error {
	query := `
		UPDATE profiles SET email_confirmed = TRUE, email_confirmation_token = NULL
		WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

func (r *postgresProfileRepository) SetPasswordResetToken(ctx context.Context, id int, token string, expiresAt time.Time) error {
	query := `
		UPDATE profiles SET password_reset_token = $1, password_reset_expires_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

// UpdateContact дозаполняет имя и телефон профиля, не трогая остальные поля.
func (r *postgresProfileRepository) UpdateContact(ctx context.Context, id int, name, phone string) error {
	query := `UPDATE profiles SET name = $1, phone = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, name, phone, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProfileNotFound)
}

// scanProfile - вспомогательный метод для сканирования одного профиля
func (r *postgresProfileRepository) scanProfile(ctx context.Context, query string, args ...interface{}) (*models.Profile, error) {
	profile := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Phone,
		&profile.Role,
		&profile.PasswordHash,
		&profile.EmailConfirmed,
		&profile.EmailConfirmationToken,
		&profile.PasswordResetToken,
		&profile.PasswordResetExpiresAt,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}
