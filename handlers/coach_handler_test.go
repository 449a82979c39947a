package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/services"
)

type fakeCoachService struct {
	submitted []services.CoachSubmissionInput
	err       error
}

func (f *fakeCoachService) Submit(_ context.Context, input services.CoachSubmissionInput) (*models.CoachSubmission, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.submitted = append(f.submitted, input)
	return &models.CoachSubmission{ID: len(f.submitted), Name: input.Name}, nil
}

func coachBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"name":            "Pat Johnson",
		"age":             34,
		"phone":           "555-123-4567",
		"email":           "pat@example.com",
		"sport":           "soccer",
		"best_times":      "Weekday evenings",
		"availability":    "Twice a week",
		"background":      "High school coach",
		"pitch":           "Kids deserve great mentors",
		"acknowledgement": true,
	})
	require.NoError(t, err)
	return body
}

func TestCreateSubmission(t *testing.T) {
	t.Run("public form submits without a session", func(t *testing.T) {
		svc := &fakeCoachService{}
		handler := NewCoachHandler(svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/coach-submissions", bytes.NewReader(coachBody(t)))
		handler.CreateSubmission(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, svc.submitted, 1)

		var resp struct {
			Submission models.CoachSubmission `json:"submission"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "Pat Johnson", resp.Submission.Name)
	})

	t.Run("rejected submission maps to 422", func(t *testing.T) {
		cases := map[string]error{
			"invalid email":           services.ErrInvalidEmail,
			"invalid phone":           services.ErrInvalidPhone,
			"acknowledgement missing": services.ErrAcknowledgementMissing,
		}
		for name, svcErr := range cases {
			t.Run(name, func(t *testing.T) {
				svc := &fakeCoachService{err: svcErr}
				handler := NewCoachHandler(svc)

				w := httptest.NewRecorder()
				r := httptest.NewRequest(http.MethodPost, "/api/coach-submissions", bytes.NewReader(coachBody(t)))
				handler.CreateSubmission(w, r)

				require.Equal(t, http.StatusUnprocessableEntity, w.Code)
				require.Empty(t, svc.submitted)

				var resp struct {
					Error string `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Equal(t, svcErr.Error(), resp.Error)
			})
		}
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		svc := &fakeCoachService{}
		handler := NewCoachHandler(svc)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/coach-submissions", bytes.NewReader([]byte("not json")))
		handler.CreateSubmission(w, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Empty(t, svc.submitted)
	})
}
