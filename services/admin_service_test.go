package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whoznexx/sports-portal/models"
)

func dashboardFixture() []models.Kid {
	return []models.Kid{
		{
			ID:    1,
			Name:  "Alex",
			Age:   9,
			Sport: models.SportFootball,
			Parent: &models.Profile{
				ID:    10,
				Name:  "Jordan Smith",
				Email: "jordan@example.com",
				Phone: "555-0101",
			},
		},
		{
			ID:    2,
			Name:  "Sam",
			Age:   11,
			Sport: models.SportSoccer,
			Parent: &models.Profile{
				ID:    11,
				Name:  "Casey Brown",
				Email: "casey@example.com",
				Phone: "555-0202",
			},
		},
		{
			ID:    3,
			Name:  "Riley",
			Age:   8,
			Sport: models.SportFootball,
			Parent: &models.Profile{
				ID:    12,
				Name:  "Sam Taylor",
				Email: "staylor@example.com",
				Phone: "555-0303",
			},
		},
	}
}

func TestFilterRegistrations(t *testing.T) {
	kids := dashboardFixture()

	t.Run("no filters returns everything", func(t *testing.T) {
		require.Len(t, FilterRegistrations(kids, "", ""), 3)
		require.Len(t, FilterRegistrations(kids, "all", ""), 3)
	})

	t.Run("sport filter alone", func(t *testing.T) {
		got := FilterRegistrations(kids, "football", "")
		require.Len(t, got, 2)
		for _, k := range got {
			require.Equal(t, models.SportFootball, k.Sport)
		}
	})

	t.Run("search matches kid name and parent fields", func(t *testing.T) {
		// "sam" встречается и в имени ребёнка (Sam, soccer), и в имени
		// родителя (Sam Taylor, football).
		got := FilterRegistrations(kids, "all", "sam")
		require.Len(t, got, 2)
		require.Equal(t, 2, got[0].ID)
		require.Equal(t, 3, got[1].ID)
	})

	t.Run("sport and search combine as AND", func(t *testing.T) {
		got := FilterRegistrations(kids, "football", "sam")
		require.Len(t, got, 1)
		require.Equal(t, 3, got[0].ID)

		got = FilterRegistrations(kids, "soccer", "sam")
		require.Len(t, got, 1)
		require.Equal(t, 2, got[0].ID)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		require.Len(t, FilterRegistrations(kids, "", "JORDAN"), 1)
		require.Len(t, FilterRegistrations(kids, "", "jordan@EXAMPLE.com"), 1)
	})

	t.Run("search by parent phone", func(t *testing.T) {
		got := FilterRegistrations(kids, "", "555-0202")
		require.Len(t, got, 1)
		require.Equal(t, 2, got[0].ID)
	})

	t.Run("no match yields empty slice, not nil", func(t *testing.T) {
		got := FilterRegistrations(kids, "", "nobody")
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("kid without parent annotation still searchable by name", func(t *testing.T) {
		orphan := []models.Kid{{ID: 4, Name: "Morgan", Sport: models.SportBaseball}}
		require.Len(t, FilterRegistrations(orphan, "", "morgan"), 1)
		require.Empty(t, FilterRegistrations(orphan, "", "someparent"))
	})
}

func TestSportCounts(t *testing.T) {
	counts := SportCounts(dashboardFixture())

	require.Equal(t, 2, counts["football"])
	require.Equal(t, 1, counts["soccer"])
	// Секции без заявок присутствуют с нулём, чтобы панель не теряла карточки.
	require.Equal(t, 0, counts["baseball"])
	require.Equal(t, 0, counts["basketball"])
	require.Len(t, counts, 4)
}

func TestMergeSubmission(t *testing.T) {
	existing := []models.CoachSubmission{
		{ID: 2, Name: "Second"},
		{ID: 1, Name: "First"},
	}

	t.Run("new submission is prepended", func(t *testing.T) {
		got := MergeSubmission(existing, models.CoachSubmission{ID: 3, Name: "Third"})
		require.Len(t, got, 3)
		require.Equal(t, 3, got[0].ID)
		require.Equal(t, 2, got[1].ID)
	})

	t.Run("duplicate id is dropped", func(t *testing.T) {
		got := MergeSubmission(existing, models.CoachSubmission{ID: 2, Name: "Second again"})
		require.Len(t, got, 2)
		require.Equal(t, "Second", got[0].Name)
	})

	t.Run("into empty list", func(t *testing.T) {
		got := MergeSubmission(nil, models.CoachSubmission{ID: 7})
		require.Len(t, got, 1)
	})
}

func TestAdminServiceDashboard(t *testing.T) {
	kidRepo := newFakeKidRepo()
	subRepo := newFakeCoachSubmissionRepo()
	svc := NewAdminService(kidRepo, subRepo, nil)

	require.NoError(t, kidRepo.Create(context.Background(), &models.Kid{Name: "Alex", Age: 9, Sport: models.SportFootball}))
	require.NoError(t, kidRepo.Create(context.Background(), &models.Kid{Name: "Sam", Age: 11, Sport: models.SportSoccer}))
	require.NoError(t, subRepo.Create(context.Background(), &models.CoachSubmission{Name: "Coach", Age: 30}))

	t.Run("counts and total ignore the active filter", func(t *testing.T) {
		dashboard, err := svc.Dashboard(context.Background(), "soccer", "")
		require.NoError(t, err)

		require.Len(t, dashboard.Registrations, 1)
		require.Equal(t, "Sam", dashboard.Registrations[0].Name)

		require.Equal(t, 2, dashboard.Total)
		require.Equal(t, 1, dashboard.Counts["football"])
		require.Equal(t, 1, dashboard.Counts["soccer"])
		require.Len(t, dashboard.CoachSubmissions, 1)
	})

	t.Run("repo failure surfaces", func(t *testing.T) {
		kidRepo.listErr = context.DeadlineExceeded
		_, err := svc.Dashboard(context.Background(), "all", "")
		require.Error(t, err)
		kidRepo.listErr = nil
	})
}

func TestAdminServiceExportWithoutUploader(t *testing.T) {
	kidRepo := newFakeKidRepo()
	subRepo := newFakeCoachSubmissionRepo()
	svc := NewAdminService(kidRepo, subRepo, nil)

	require.NoError(t, kidRepo.Create(context.Background(), &models.Kid{Name: "Alex", Age: 9, Sport: models.SportFootball}))

	result, err := svc.Export(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.URL)
	require.NotNil(t, result.Content)
	require.Greater(t, result.Content.Len(), 0)
	require.Contains(t, result.FileName, ".xlsx")
}
