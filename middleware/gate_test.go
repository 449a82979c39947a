package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/whoznexx/sports-portal/models"
)

type fakeVerifier struct {
	profiles map[int]*models.Profile
	err      error
	calls    int
}

func (f *fakeVerifier) GetProfile(_ context.Context, id int) (*models.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, ErrSessionDead
	}
	return p, nil
}

const testSecret = "test-secret-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passTarget — конечный обработчик за гейтом; отмечает, что запрос дошёл,
// и отдаёт профиль из контекста, если он там есть.
func passTarget(reached *bool, gotProfile **models.Profile) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		if p, err := ProfileFromContext(r.Context()); err == nil {
			*gotProfile = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func sessionRequest(t *testing.T, path string, profile *models.Profile) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if profile != nil {
		token, err := NewSessionToken([]byte(testSecret), profile, SessionTTL)
		require.NoError(t, err)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	return r
}

func TestGateProtectedPaths(t *testing.T) {
	member := &models.Profile{ID: 1, Email: "parent@example.com", Role: models.RoleMember}
	verifier := &fakeVerifier{profiles: map[int]*models.Profile{1: member}}
	gate := NewSessionGate(testSecret, verifier, testLogger())

	t.Run("page without session redirects to /auth", func(t *testing.T) {
		for _, path := range []string{"/sports", "/register", "/admin"} {
			reached := false
			var got *models.Profile
			w := httptest.NewRecorder()

			gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, path, nil))

			require.False(t, reached, path)
			require.Equal(t, http.StatusSeeOther, w.Code, path)
			require.Equal(t, "/auth", w.Header().Get("Location"), path)
		}
	})

	t.Run("api without session gets 401 json", func(t *testing.T) {
		reached := false
		var got *models.Profile
		w := httptest.NewRecorder()

		gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, "/api/kids", nil))

		require.False(t, reached)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("open paths pass without session", func(t *testing.T) {
		for _, path := range []string{"/", "/auth", "/coach-signup", "/api/coach-submissions"} {
			reached := false
			var got *models.Profile
			w := httptest.NewRecorder()

			gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, path, nil))

			require.True(t, reached, path)
			require.Nil(t, got, path)
		}
	})

	t.Run("valid session passes and lands in context", func(t *testing.T) {
		reached := false
		var got *models.Profile
		w := httptest.NewRecorder()

		gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, "/sports", member))

		require.True(t, reached)
		require.NotNil(t, got)
		require.Equal(t, member.ID, got.ID)
	})

	t.Run("garbage cookie is treated as no session", func(t *testing.T) {
		reached := false
		var got *models.Profile
		w := httptest.NewRecorder()

		r := httptest.NewRequest(http.MethodGet, "/sports", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
		gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, r)

		require.False(t, reached)
		require.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("token signed with a different key is rejected", func(t *testing.T) {
		token, err := NewSessionToken([]byte("other-key"), member, SessionTTL)
		require.NoError(t, err)

		reached := false
		var got *models.Profile
		w := httptest.NewRecorder()

		r := httptest.NewRequest(http.MethodGet, "/sports", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, r)

		require.False(t, reached)
	})
}

func TestGateDeadSession(t *testing.T) {
	// Профиль с id=2 отсутствует в хранилище: токен подписан верно,
	// но сессия мертва.
	verifier := &fakeVerifier{profiles: map[int]*models.Profile{}}
	gate := NewSessionGate(testSecret, verifier, testLogger())

	ghost := &models.Profile{ID: 2, Role: models.RoleMember}
	reached := false
	var got *models.Profile
	w := httptest.NewRecorder()

	gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, "/register", ghost))

	require.False(t, reached)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/auth", w.Header().Get("Location"))
}

func TestGateFailsOpenOnStoreError(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("connection refused")}
	gate := NewSessionGate(testSecret, verifier, testLogger())

	member := &models.Profile{ID: 1, Role: models.RoleMember}
	reached := false
	var got *models.Profile
	w := httptest.NewRecorder()

	gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, "/sports", member))

	// Хранилище лежит: гейт пропускает запрос, а не роняет сайт.
	require.True(t, reached)
	require.Nil(t, got)
	require.Equal(t, 1, verifier.calls)
}

func TestGatePassthroughWithoutSecret(t *testing.T) {
	gate := NewSessionGate("", nil, testLogger())

	reached := false
	var got *models.Profile
	w := httptest.NewRecorder()

	gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, "/admin", nil))

	require.True(t, reached)
	require.Nil(t, got)
}

func TestGateSlidingRefresh(t *testing.T) {
	member := &models.Profile{ID: 1, Role: models.RoleMember}
	verifier := &fakeVerifier{profiles: map[int]*models.Profile{1: member}}
	gate := NewSessionGate(testSecret, verifier, testLogger())

	t.Run("young token is not refreshed", func(t *testing.T) {
		reached := false
		var got *models.Profile
		w := httptest.NewRecorder()

		gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, sessionRequest(t, "/sports", member))

		require.True(t, reached)
		require.Empty(t, w.Result().Cookies())
	})

	t.Run("token past half-life gets a fresh cookie", func(t *testing.T) {
		shortLived, err := NewSessionToken([]byte(testSecret), member, SessionTTL/4)
		require.NoError(t, err)

		reached := false
		var got *models.Profile
		w := httptest.NewRecorder()

		r := httptest.NewRequest(http.MethodGet, "/sports", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: shortLived})
		gate.Gate(passTarget(&reached, &got)).ServeHTTP(w, r)

		require.True(t, reached)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, SessionCookieName, cookies[0].Name)
		require.NotEqual(t, shortLived, cookies[0].Value)

		claims, err := ParseSessionToken([]byte(testSecret), cookies[0].Value)
		require.NoError(t, err)
		require.Greater(t, time.Until(claims.ExpiresAt), SessionTTL/2)
	})
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("without profile", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/kids", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("with profile", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/kids", nil)
		r = r.WithContext(ContextWithProfile(r.Context(), &models.Profile{ID: 1, Role: models.RoleMember}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	withRole := func(role models.ProfileRole) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
		return r.WithContext(ContextWithProfile(r.Context(), &models.Profile{ID: 1, Role: role}))
	}

	t.Run("admin passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withRole(models.RoleAdmin))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("member gets 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withRole(models.RoleMember))
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
