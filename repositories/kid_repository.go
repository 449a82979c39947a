package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/whoznexx/sports-portal/models"
)

var (
	ErrKidNotFound      = errors.New("kid registration not found")
	ErrKidParentInvalid = errors.New("kid parent profile invalid")
)

type KidRepository interface {
	Create(ctx context.Context, kid *models.Kid) error
	ListByParentID(ctx context.Context, parentID int) ([]models.Kid, error)
	ListAllWithParents(ctx context.Context) ([]models.Kid, error)
}

type postgresKidRepository struct {
	db *sql.DB
}

func NewPostgresKidRepository(db *sql.DB) KidRepository {
	return &postgresKidRepository{db: db}
}

func (r *postgresKidRepository) Create(ctx context.Context, kid *models.Kid) error {
	query := `
		INSERT INTO kids (
			parent_id, name, age, sport, gender, school, grade, experience_level,
			parent_phone, emergency_contact_name, emergency_contact_phone,
			shirt_size, medical_notes, special_requests
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		kid.ParentID,
		kid.Name,
		kid.Age,
		kid.Sport,
		kid.Gender,
		kid.School,
		kid.Grade,
		kid.ExperienceLevel,
		kid.ParentPhone,
		kid.EmergencyContactName,
		kid.EmergencyContactPhone,
		kid.ShirtSize,
		kid.MedicalNotes,
		kid.SpecialRequests,
	).Scan(&kid.ID, &kid.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "kids_parent_id_fkey" {
				return ErrKidParentInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresKidRepository) ListByParentID(ctx context.Context, parentID int) ([]models.Kid, error) {
	query := `
		SELECT id, parent_id, name, age, sport, gender, school, grade, experience_level,
			parent_phone, emergency_contact_name, emergency_contact_phone,
			shirt_size, medical_notes, special_requests, created_at
		FROM kids
		WHERE parent_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kids := make([]models.Kid, 0)
	for rows.Next() {
		var kid models.Kid
		if err := scanKid(rows, &kid); err != nil {
			return nil, err
		}
		kids = append(kids, kid)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return kids, nil
}

// ListAllWithParents возвращает все заявки с аннотацией профиля родителя
// (имя, email, телефон) для админской панели.
func (r *postgresKidRepository) ListAllWithParents(ctx context.Context) ([]models.Kid, error) {
	query := `
		SELECT
			k.id, k.parent_id, k.name, k.age, k.sport, k.gender, k.school, k.grade,
			k.experience_level, k.parent_phone, k.emergency_contact_name,
			k.emergency_contact_phone, k.shirt_size, k.medical_notes,
			k.special_requests, k.created_at,
			p.id, p.name, p.email, p.phone, p.role, p.created_at
		FROM kids k
		LEFT JOIN profiles p ON k.parent_id = p.id
		ORDER BY k.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kids := make([]models.Kid, 0)
	for rows.Next() {
		var kid models.Kid

		var parentID sql.NullInt64
		var parentName sql.NullString
		var parentEmail sql.NullString
		var parentPhone sql.NullString
		var parentRole sql.NullString
		var parentCreatedAt sql.NullTime

		err := rows.Scan(
			&kid.ID,
			&kid.ParentID,
			&kid.Name,
			&kid.Age,
			&kid.Sport,
			&kid.Gender,
			&kid.School,
			&kid.Grade,
			&kid.ExperienceLevel,
			&kid.ParentPhone,
			&kid.EmergencyContactName,
			&kid.EmergencyContactPhone,
			&kid.ShirtSize,
			&kid.MedicalNotes,
			&kid.SpecialRequests,
			&kid.CreatedAt,
			// Поля профиля (могут быть NULL)
			&parentID,
			&parentName,
			&parentEmail,
			&parentPhone,
			&parentRole,
			&parentCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kid with parent: %w", err)
		}

		if parentID.Valid {
			kid.Parent = &models.Profile{
				ID:        int(parentID.Int64),
				Name:      parentName.String,
				Email:     parentEmail.String,
				Phone:     parentPhone.String,
				Role:      models.ProfileRole(parentRole.String),
				CreatedAt: parentCreatedAt.Time,
			}
		}
		kids = append(kids, kid)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return kids, nil
}

func scanKid(rows *sql.Rows, kid *models.Kid) error {
	return rows.Scan(
		&kid.ID,
		&kid.ParentID,
		&kid.Name,
		&kid.Age,
		&kid.Sport,
		&kid.Gender,
		&kid.School,
		&kid.Grade,
		&kid.ExperienceLevel,
		&kid.ParentPhone,
		&kid.EmergencyContactName,
		&kid.EmergencyContactPhone,
		&kid.ShirtSize,
		&kid.MedicalNotes,
		&kid.SpecialRequests,
		&kid.CreatedAt,
	)
}
