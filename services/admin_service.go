package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/whoznexx/sports-portal/export"
	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/repositories"
	"github.com/whoznexx/sports-portal/storage"
	"golang.org/x/sync/errgroup"
)

type AdminService interface {
	Dashboard(ctx context.Context, sportFilter string, searchQuery string) (*Dashboard, error)
	ListCoachSubmissions(ctx context.Context) ([]models.CoachSubmission, error)
	Export(ctx context.Context) (*ExportResult, error)
}

// Dashboard — агрегат для админской панели. Counts всегда считаются по
// полному набору заявок, независимо от активного фильтра.
type Dashboard struct {
	Registrations    []models.Kid             `json:"registrations"`
	CoachSubmissions []models.CoachSubmission `json:"coach_submissions"`
	Counts           map[string]int           `json:"counts"`
	Total            int                      `json:"total"`
}

// ExportResult: либо URL опубликованного файла, либо содержимое для
// выдачи напрямую, если хранилище не настроено.
type ExportResult struct {
	FileName string
	URL      string
	Content  *bytes.Buffer
}

type adminService struct {
	kidRepo        repositories.KidRepository
	submissionRepo repositories.CoachSubmissionRepository
	uploader       storage.FileUploader // nil, если R2 не настроен
}

func NewAdminService(
	kidRepo repositories.KidRepository,
	submissionRepo repositories.CoachSubmissionRepository,
	uploader storage.FileUploader,
) AdminService {
	return &adminService{
		kidRepo:        kidRepo,
		submissionRepo: submissionRepo,
		uploader:       uploader,
	}
}

func (s *adminService) Dashboard(ctx context.Context, sportFilter string, searchQuery string) (*Dashboard, error) {
	var kids []models.Kid
	var submissions []models.CoachSubmission

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kids, err = s.kidRepo.ListAllWithParents(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list registrations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		submissions, err = s.submissionRepo.ListAll(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list coach submissions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Registrations:    FilterRegistrations(kids, sportFilter, searchQuery),
		CoachSubmissions: submissions,
		Counts:           SportCounts(kids),
		Total:            len(kids),
	}, nil
}

func (s *adminService) ListCoachSubmissions(ctx context.Context) ([]models.CoachSubmission, error) {
	return s.submissionRepo.ListAll(ctx)
}

// Export собирает книгу с двумя листами и публикует её в объектное
// хранилище. Без настроенного R2 содержимое возвращается напрямую.
func (s *adminService) Export(ctx context.Context) (*ExportResult, error) {
	dashboard, err := s.Dashboard(ctx, "all", "")
	if err != nil {
		return nil, err
	}

	kidRows := make([][]string, 0, len(dashboard.Registrations))
	for _, k := range dashboard.Registrations {
		parentName, parentEmail, parentPhone := "", "", ""
		if k.Parent != nil {
			parentName = k.Parent.Name
			parentEmail = k.Parent.Email
			parentPhone = k.Parent.Phone
		}
		kidRows = append(kidRows, []string{
			fmt.Sprintf("%d", k.ID),
			k.Name,
			fmt.Sprintf("%d", k.Age),
			string(k.Sport),
			parentName,
			parentEmail,
			parentPhone,
			k.CreatedAt.Format(time.RFC3339),
		})
	}

	subRows := make([][]string, 0, len(dashboard.CoachSubmissions))
	for _, c := range dashboard.CoachSubmissions {
		subRows = append(subRows, []string{
			fmt.Sprintf("%d", c.ID),
			c.Name,
			fmt.Sprintf("%d", c.Age),
			c.Sport,
			c.Email,
			c.Phone,
			c.Availability,
			c.CreatedAt.Format(time.RFC3339),
		})
	}

	buf, err := export.BuildWorkbook([]export.SheetSpec{
		{
			Title:  "Registrations",
			Header: []string{"ID", "Kid", "Age", "Sport", "Parent", "Parent Email", "Parent Phone", "Created"},
			Rows:   kidRows,
		},
		{
			Title:  "Coach Submissions",
			Header: []string{"ID", "Name", "Age", "Sport", "Email", "Phone", "Availability", "Created"},
			Rows:   subRows,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build export workbook: %w", err)
	}

	fileName := fmt.Sprintf("portal-export-%s.xlsx", time.Now().Format("2006-01-02"))

	if s.uploader == nil {
		return &ExportResult{FileName: fileName, Content: buf}, nil
	}

	key := fmt.Sprintf("exports/%s-%s", uuid.NewString(), fileName)
	const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	result, err := s.uploader.Upload(ctx, key, xlsxContentType, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	return &ExportResult{FileName: fileName, URL: result.Location}, nil
}

// FilterRegistrations применяет фильтр по секции и поиск по подстроке.
// Оба предиката действуют одновременно (AND). Поиск регистронезависимый,
// по имени ребёнка и email/телефону родителя.
func FilterRegistrations(kids []models.Kid, sportFilter string, searchQuery string) []models.Kid {
	q := strings.ToLower(strings.TrimSpace(searchQuery))

	filtered := make([]models.Kid, 0, len(kids))
	for _, k := range kids {
		if sportFilter != "" && sportFilter != "all" && string(k.Sport) != sportFilter {
			continue
		}
		if q != "" && !matchesQuery(k, q) {
			continue
		}
		filtered = append(filtered, k)
	}
	return filtered
}

func matchesQuery(k models.Kid, q string) bool {
	if strings.Contains(strings.ToLower(k.Name), q) {
		return true
	}
	if k.Parent != nil {
		if strings.Contains(strings.ToLower(k.Parent.Name), q) ||
			strings.Contains(strings.ToLower(k.Parent.Email), q) ||
			strings.Contains(strings.ToLower(k.Parent.Phone), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(k.ParentPhone), q)
}

// SportCounts считает заявки по каждой секции поверх нефильтрованного набора.
func SportCounts(kids []models.Kid) map[string]int {
	counts := make(map[string]int, len(models.AllSports()))
	for _, sport := range models.AllSports() {
		counts[string(sport)] = 0
	}
	for _, k := range kids {
		counts[string(k.Sport)]++
	}
	return counts
}

// MergeSubmission добавляет событие вставки в начало списка, дедуплицируя по
// идентификатору: событие, пришедшее наперегонки со снапшотом, не создаёт
// дубликат строки.
func MergeSubmission(list []models.CoachSubmission, s models.CoachSubmission) []models.CoachSubmission {
	for _, existing := range list {
		if existing.ID == s.ID {
			return list
		}
	}
	merged := make([]models.CoachSubmission, 0, len(list)+1)
	merged = append(merged, s)
	merged = append(merged, list...)
	return merged
}
