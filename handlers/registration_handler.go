package handlers

import (
	"fmt"
	"net/http"

	"github.com/whoznexx/sports-portal/metrics"
	"github.com/whoznexx/sports-portal/middleware"
	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/observability"
	"github.com/whoznexx/sports-portal/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// CreateKid регистрирует ребёнка. Секция приходит в query-параметре sport,
// как и на странице регистрации; неизвестное значение сводится к football.
func (h *RegistrationHandler) CreateKid(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, services.ErrAuthSessionInvalid.Error())
		return
	}

	var input services.KidInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Sport == "" {
		sport := models.Sport(r.URL.Query().Get("sport"))
		if !sport.Valid() {
			sport = models.SportFootball
		}
		input.Sport = sport
	}

	kid, err := h.registrationService.RegisterKid(r.Context(), profile.ID, input)
	if err != nil {
		if kid != nil {
			// Заявка создана, упало только дозаполнение профиля.
			fmt.Println("Ошибка дозаполнения контактов родителя:", err)
			observability.CaptureErr(err)
			metrics.KidRegistrations.WithLabelValues(string(kid.Sport)).Inc()
			if writeErr := writeJSON(w, http.StatusCreated, jsonResponse{"kid": kid}, nil); writeErr != nil {
				serverErrorResponse(w, r, writeErr)
			}
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	metrics.KidRegistrations.WithLabelValues(string(kid.Sport)).Inc()

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"kid": kid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListKids возвращает заявки текущего родителя.
func (h *RegistrationHandler) ListKids(w http.ResponseWriter, r *http.Request) {
	profile, err := middleware.ProfileFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, services.ErrAuthSessionInvalid.Error())
		return
	}

	kids, err := h.registrationService.ListOwnKids(r.Context(), profile.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"kids": kids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
