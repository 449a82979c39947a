package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/whoznexx/sports-portal/models"
)

// SessionVerifier — контракт Session Store для гейта: по id сессии вернуть
// актуальный профиль. ErrSessionDead означает мёртвую сессию; любая другая
// ошибка трактуется как недоступность хранилища (fail-open).
type SessionVerifier interface {
	GetProfile(ctx context.Context, id int) (*models.Profile, error)
}

// ErrSessionDead возвращает верификатор, когда профиль сессии больше не существует.
var ErrSessionDead = errors.New("session profile no longer exists")

// Маршруты, требующие сессию. Всё остальное открыто.
var protectedPrefixes = []string{
	"/sports",
	"/register",
	"/admin",
	"/api/kids",
	"/api/profile",
	"/api/admin",
	"/ws/admin",
}

// SessionGate — предрендерная проверка сессии для каждого запроса.
type SessionGate struct {
	secret   []byte
	verifier SessionVerifier
	logger   *slog.Logger
}

func NewSessionGate(secret string, verifier SessionVerifier, logger *slog.Logger) *SessionGate {
	if secret == "" {
		// Без секрета гейт превращается в passthrough: это условие сборки,
		// а не ошибка времени выполнения.
		logger.Warn("session gate disabled: no secret configured")
		return &SessionGate{logger: logger}
	}
	return &SessionGate{
		secret:   []byte(secret),
		verifier: verifier,
		logger:   logger,
	}
}

// Gate читает cookie сессии, сверяет её с хранилищем и решает: пропустить,
// перенаправить на /auth или пропустить по fail-open. Гейт никогда не
// паникует и не возвращает ошибку вызывающему.
func (g *SessionGate) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.secret == nil {
			next.ServeHTTP(w, r)
			return
		}

		profile, ok := g.resolveSession(w, r)
		if profile != nil {
			r = r.WithContext(ContextWithProfile(r.Context(), profile))
		}

		if profile == nil && ok && isProtectedPath(r.URL.Path) {
			if isAPIPath(r.URL.Path) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "authentication required"}` + "\n"))
				return
			}
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveSession возвращает профиль сессии и флаг "вердикт достоверен".
// (nil, false) — хранилище недоступно: запрос пропускается как есть,
// клиентская проверка возьмёт своё (fail-open).
func (g *SessionGate) resolveSession(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, true
	}

	claims, err := ParseSessionToken(g.secret, cookie.Value)
	if err != nil {
		// Битый или истёкший токен — сессии нет.
		return nil, true
	}

	profile, err := g.verifier.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, ErrSessionDead) {
			return nil, true
		}
		// Хранилище сессий недоступно: логируем и пропускаем запрос,
		// чтобы не уронить весь сайт из-за сетевой ошибки.
		g.logger.Error("session store unreachable in gate, failing open",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		return nil, false
	}

	// Скользящее продление: прожившему больше половины срока токену
	// перевыпускаем cookie на ответе.
	if time.Until(claims.ExpiresAt) < SessionTTL/2 {
		if refreshed, err := NewSessionToken(g.secret, profile, SessionTTL); err == nil {
			SetSessionCookie(w, refreshed, SessionTTL)
		} else {
			g.logger.Error("failed to refresh session token", slog.Any("error", err))
		}
	}

	return profile, true
}

// RequireAuth — вторая линия за гейтом для API: без профиля в контексте 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := ProfileFromContext(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "authentication required"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole пускает дальше только сессии с указанной ролью. Роль берётся из
// профиля, прочитанного гейтом из БД на этом же запросе: клиентским флагам и
// полям токена здесь не доверяют.
func RequireRole(roles ...models.ProfileRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, err := ProfileFromContext(r.Context())
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "authentication required"}` + "\n"))
				return
			}

			for _, role := range roles {
				if role == profile.Role {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "admin access required"}` + "\n"))
		})
	}
}

func isProtectedPath(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/ws/")
}
