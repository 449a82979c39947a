package handlers

import (
	"net/http"

	"github.com/whoznexx/sports-portal/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Dashboard отдаёт все заявки с аннотацией родителя, счётчики по секциям и
// заявки тренеров. Параметры: sport (all|football|baseball|soccer|basketball),
// q (поиск по подстроке). Оба фильтра действуют одновременно.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		sport = "all"
	}
	query := r.URL.Query().Get("q")

	dashboard, err := h.adminService.Dashboard(r.Context(), sport, query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dashboard, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) ListCoachSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.adminService.ListCoachSubmissions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"submissions": submissions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Export собирает xlsx. При настроенном R2 возвращает ссылку на загруженный
// файл, иначе отдаёт книгу вложением.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.Export(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if result.URL != "" {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"url": result.URL, "file_name": result.FileName}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content.Bytes()); err != nil {
		serverErrorResponse(w, r, err)
	}
}
