package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/whoznexx/sports-portal/models"
)

var ErrCoachSubmissionNotFound = errors.New("coach submission not found")

type CoachSubmissionRepository interface {
	Create(ctx context.Context, submission *models.CoachSubmission) error
	GetByID(ctx context.Context, id int) (*models.CoachSubmission, error)
	ListAll(ctx context.Context) ([]models.CoachSubmission, error)
}

type postgresCoachSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresCoachSubmissionRepository(db *sql.DB) CoachSubmissionRepository {
	return &postgresCoachSubmissionRepository{db: db}
}

func (r *postgresCoachSubmissionRepository) Create(ctx context.Context, submission *models.CoachSubmission) error {
	query := `
		INSERT INTO coach_submissions (
			name, age, phone, email, sport, best_times, availability,
			background, pitch, final_thoughts, acknowledgement
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		submission.Name,
		submission.Age,
		submission.Phone,
		submission.Email,
		submission.Sport,
		submission.BestTimes,
		submission.Availability,
		submission.Background,
		submission.Pitch,
		submission.FinalThoughts,
		submission.Acknowledgement,
	).Scan(&submission.ID, &submission.CreatedAt)
}

func (r *postgresCoachSubmissionRepository) GetByID(ctx context.Context, id int) (*models.CoachSubmission, error) {
	query := `
		SELECT id, name, age, phone, email, sport, best_times, availability,
			background, pitch, final_thoughts, acknowledgement, created_at
		FROM coach_submissions
		WHERE id = $1`

	var s models.CoachSubmission
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Age,
		&s.Phone,
		&s.Email,
		&s.Sport,
		&s.BestTimes,
		&s.Availability,
		&s.Background,
		&s.Pitch,
		&s.FinalThoughts,
		&s.Acknowledgement,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoachSubmissionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll возвращает заявки тренеров, новые первыми.
func (r *postgresCoachSubmissionRepository) ListAll(ctx context.Context) ([]models.CoachSubmission, error) {
	query := `
		SELECT id, name, age, phone, email, sport, best_times, availability,
			background, pitch, final_thoughts, acknowledgement, created_at
		FROM coach_submissions
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]models.CoachSubmission, 0)
	for rows.Next() {
		var s models.CoachSubmission
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Age,
			&s.Phone,
			&s.Email,
			&s.Sport,
			&s.BestTimes,
			&s.Availability,
			&s.Background,
			&s.Pitch,
			&s.FinalThoughts,
			&s.Acknowledgement,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}
