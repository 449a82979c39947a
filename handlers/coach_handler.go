package handlers

import (
	"net/http"

	"github.com/whoznexx/sports-portal/metrics"
	"github.com/whoznexx/sports-portal/services"
)

type CoachHandler struct {
	coachService services.CoachService
}

func NewCoachHandler(coachService services.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// CreateSubmission принимает публичную заявку тренера. Сессия не требуется.
func (h *CoachHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var input services.CoachSubmissionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	submission, err := h.coachService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	metrics.CoachSubmissions.Inc()

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"submission": submission}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
