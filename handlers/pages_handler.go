package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/whoznexx/sports-portal/middleware"
	"github.com/whoznexx/sports-portal/models"
	"github.com/whoznexx/sports-portal/templates"
)

// PagesHandler отдаёт HTML-оболочки страниц портала. Вся логика форм живёт в
// JSON API; страницы только каркас. Шаблоны вшиты в бинарник и парсятся один
// раз при создании обработчика.
type PagesHandler struct {
	pages map[string]*template.Template
}

func NewPagesHandler() (*PagesHandler, error) {
	paths, err := fs.Glob(templates.Pages, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска шаблонов страниц: %w", err)
	}

	pages := make(map[string]*template.Template, len(paths))
	for _, p := range paths {
		t, err := template.ParseFS(templates.Pages, p)
		if err != nil {
			return nil, fmt.Errorf("ошибка парсинга шаблона %s: %w", p, err)
		}
		pages[path.Base(p)] = t
	}

	return &PagesHandler{pages: pages}, nil
}

type pageData struct {
	Title    string
	Profile  *models.Profile
	Sports   []models.Sport
	Sport    models.Sport
	SportTag string
}

func (h *PagesHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "landing.html", pageData{Title: "WhozNexx Sports"})
}

func (h *PagesHandler) Auth(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth.html", pageData{Title: "Sign in"})
}

func (h *PagesHandler) Sports(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "sports.html", pageData{
		Title:  "Pick a sport",
		Sports: models.AllSports(),
	})
}

// Register выбирает шаблон секции по query-параметру sport; неизвестное
// значение сводится к football.
func (h *PagesHandler) Register(w http.ResponseWriter, r *http.Request) {
	sport := models.Sport(r.URL.Query().Get("sport"))
	if !sport.Valid() {
		sport = models.SportFootball
	}
	h.render(w, r, "register.html", pageData{
		Title:    "Register",
		Sport:    sport,
		SportTag: string(sport),
	})
}

func (h *PagesHandler) CoachSignup(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "coach_signup.html", pageData{Title: "Coach application"})
}

func (h *PagesHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin.html", pageData{Title: "Admin dashboard"})
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	t, ok := h.pages[name]
	if !ok {
		serverErrorResponse(w, r, fmt.Errorf("неизвестный шаблон страницы %s", name))
		return
	}

	if profile, err := middleware.ProfileFromContext(r.Context()); err == nil {
		data.Profile = profile
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		fmt.Printf("Error rendering page %s: %v\n", name, err)
	}
}
