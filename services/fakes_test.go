package services

import (
	"context"
	"time"

	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/repositories"
)

// Фейковые репозитории для юнит-тестов сервисов. Хранят всё в памяти,
// ошибки подменяются через поля *Err.

type fakeProfileRepo struct {
	profiles map[int]*models.Profile
	nextID   int

	createErr error
	getErr    error
	updateErr error

	contactUpdates int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int]*models.Profile), nextID: 1}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, p := range f.profiles {
		if p.Email == profile.Email {
			return repositories.ErrProfileEmailConflict
		}
	}
	profile.ID = f.nextID
	f.nextID++
	profile.CreatedAt = time.Now()
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id int) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.profiles {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetByConfirmationToken(_ context.Context, token string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.EmailConfirmationToken != nil && *p.EmailConfirmationToken == token {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) GetByPasswordResetToken(_ context.Context, token string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.PasswordResetToken != nil && *p.PasswordResetToken == token {
			clone := *p
			return &clone, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.profiles[profile.ID]; !ok {
		return repositories.ErrProfileNotFound
	}
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeProfileRepo) ConfirmEmail(_ context.Context, id int) error {
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.EmailConfirmed = true
	p.EmailConfirmationToken = nil
	return nil
}

func (f *fakeProfileRepo) SetPasswordResetToken(_ context.Context, id int, token string, expiresAt time.Time) error {
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.PasswordResetToken = &token
	p.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeProfileRepo) UpdateContact(_ context.Context, id int, name, phone string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	p.Name = name
	p.Phone = phone
	f.contactUpdates++
	return nil
}

type fakeKidRepo struct {
	kids   []models.Kid
	nextID int

	createErr error
	listErr   error
}

func newFakeKidRepo() *fakeKidRepo {
	return &fakeKidRepo{nextID: 1}
}

func (f *fakeKidRepo) Create(_ context.Context, kid *models.Kid) error {
	if f.createErr != nil {
		return f.createErr
	}
	kid.ID = f.nextID
	f.nextID++
	kid.CreatedAt = time.Now()
	f.kids = append(f.kids, *kid)
	return nil
}

func (f *fakeKidRepo) ListByParentID(_ context.Context, parentID int) ([]models.Kid, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Kid, 0)
	for _, k := range f.kids {
		if k.ParentID == parentID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKidRepo) ListAllWithParents(_ context.Context) ([]models.Kid, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Kid(nil), f.kids...), nil
}

type fakeCoachSubmissionRepo struct {
	submissions []models.CoachSubmission
	nextID      int

	createErr error
	listErr   error
}

func newFakeCoachSubmissionRepo() *fakeCoachSubmissionRepo {
	return &fakeCoachSubmissionRepo{nextID: 1}
}

func (f *fakeCoachSubmissionRepo) Create(_ context.Context, s *models.CoachSubmission) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = f.nextID
	f.nextID++
	s.CreatedAt = time.Now()
	f.submissions = append(f.submissions, *s)
	return nil
}

func (f *fakeCoachSubmissionRepo) GetByID(_ context.Context, id int) (*models.CoachSubmission, error) {
	for _, s := range f.submissions {
		if s.ID == id {
			clone := s
			return &clone, nil
		}
	}
	return nil, repositories.ErrCoachSubmissionNotFound
}

func (f *fakeCoachSubmissionRepo) ListAll(_ context.Context) ([]models.CoachSubmission, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	// Как в БД: новые заявки первыми.
	out := make([]models.CoachSubmission, len(f.submissions))
	for i, s := range f.submissions {
		out[len(f.submissions)-1-i] = s
	}
	return out, nil
}
