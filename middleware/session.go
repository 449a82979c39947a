package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/whoznexx/sports-portal/models"
)

// SessionCookieName — cookie с подписанным токеном сессии.
const SessionCookieName = "wns_session"

// SessionTTL — срок жизни сессии. Токен, прошедший половину срока,
// перевыпускается гейтом (скользящее продление).
const SessionTTL = 24 * time.Hour

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

type contextKey string

const profileContextKey contextKey = "profile"

// SessionClaims — проверенное содержимое токена сессии.
type SessionClaims struct {
	UserID    int
	Role      models.ProfileRole
	ExpiresAt time.Time
}

func NewSessionToken(secret []byte, profile *models.Profile, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		jwtClaimUserID: profile.ID,
		jwtClaimRole:   string(profile.Role),
		"exp":          time.Now().Add(ttl).Unix(),
		"iat":          time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

func ParseSessionToken(secret []byte, tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}

	userIDFloat, ok := claims[jwtClaimUserID].(float64)
	if !ok || userIDFloat != float64(int(userIDFloat)) || int(userIDFloat) <= 0 {
		return nil, fmt.Errorf("invalid '%s' claim in session token", jwtClaimUserID)
	}

	roleStr, ok := claims[jwtClaimRole].(string)
	if !ok {
		return nil, fmt.Errorf("invalid '%s' claim in session token", jwtClaimRole)
	}

	expFloat, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing 'exp' claim in session token")
	}

	return &SessionClaims{
		UserID:    int(userIDFloat),
		Role:      models.ProfileRole(roleStr),
		ExpiresAt: time.Unix(int64(expFloat), 0),
	}, nil
}

// SetSessionCookie прикрепляет (или обновляет) cookie сессии на ответе.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ContextWithProfile кладёт профиль сессии в контекст запроса. Используется
// гейтом; в тестах — для подготовки аутентифицированных запросов.
func ContextWithProfile(ctx context.Context, profile *models.Profile) context.Context {
	return context.WithValue(ctx, profileContextKey, profile)
}

// ProfileFromContext достаёт профиль текущей сессии, положенный гейтом.
func ProfileFromContext(ctx context.Context) (*models.Profile, error) {
	profile, ok := ctx.Value(profileContextKey).(*models.Profile)
	if !ok || profile == nil {
		return nil, errors.New("profile not found in context")
	}
	return profile, nil
}
